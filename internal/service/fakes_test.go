package service

import (
	"context"
	"sort"
	"time"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/ratelimit"
	"github.com/dardiyafa/booking-engine/internal/repository"
)

// fakeEventStore is an in-memory EventStore for tests.
type fakeEventStore struct {
	events  map[string]*model.Event
	created int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[string]*model.Event{}}
}

func (f *fakeEventStore) seed(e model.Event) *model.Event {
	cp := e
	f.events[e.ID] = &cp
	return &cp
}

func (f *fakeEventStore) get(id string) *model.Event {
	return f.events[id]
}

func (f *fakeEventStore) Create(ctx context.Context, e *model.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	f.created++
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, orgID, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok || e.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventStore) GetByIDAny(ctx context.Context, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventStore) Update(ctx context.Context, e *model.Event) error {
	existing, ok := f.events[e.ID]
	if !ok || existing.OrgID != e.OrgID {
		return repository.ErrNotFound
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventStore) List(ctx context.Context, orgID string, filter model.ListFilter) ([]model.Summary, error) {
	var matched []*model.Event
	for _, e := range f.events {
		if e.OrgID != orgID {
			continue
		}
		if len(filter.Statuses) > 0 {
			found := false
			for _, s := range filter.Statuses {
				if e.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if filter.Sort == "date_asc" {
			return matched[i].EventDate.Before(matched[j].EventDate)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	var out []model.Summary
	for i := filter.Offset; i < len(matched) && len(out) < filter.Limit; i++ {
		out = append(out, matched[i].Summarize())
	}
	return out, nil
}

func (f *fakeEventStore) ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.OrgID != orgID {
			continue
		}
		if e.EventDate.Before(start) || e.EventDate.After(end) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (f *fakeEventStore) CountByOrg(ctx context.Context, orgID string) (int, error) {
	n := 0
	for _, e := range f.events {
		if e.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventStore) CountByStatus(ctx context.Context, orgID string, statuses []model.Status) (int, error) {
	n := 0
	for _, e := range f.events {
		if e.OrgID != orgID {
			continue
		}
		for _, s := range statuses {
			if e.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (f *fakeEventStore) CountByEventDate(ctx context.Context, orgID string, start, end time.Time) (int, error) {
	n := 0
	for _, e := range f.events {
		if e.OrgID == orgID && !e.EventDate.Before(start) && e.EventDate.Before(end) {
			n++
		}
	}
	return n, nil
}

// fakeRelatedStore returns empty related collections.
type fakeRelatedStore struct{}

func (fakeRelatedStore) Load(ctx context.Context, eventID string) (model.Related, error) {
	return model.Related{
		Quotes:            []model.Quote{},
		PaymentMilestones: []model.PaymentMilestone{},
		StaffAssignments:  []model.StaffAssignment{},
		PrepTasks:         []model.PrepTask{},
	}, nil
}

// fakeOrgStore serves organizations from a map.
type fakeOrgStore struct {
	orgs map[string]*model.Organization
}

func (f *fakeOrgStore) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

// fakeLimiter allows a fixed number of calls per key.
type fakeLimiter struct {
	limit int
	calls map[string]int
}

func newFakeLimiter(limit int) *fakeLimiter {
	return &fakeLimiter{limit: limit, calls: map[string]int{}}
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) error {
	f.calls[key]++
	if f.calls[key] > f.limit {
		return ratelimit.ErrLimitExceeded
	}
	return nil
}

// fakeNotifier records notified event ids.
type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) InquiryReceived(ctx context.Context, e *model.Event) {
	f.notified = append(f.notified, e.ID)
}
