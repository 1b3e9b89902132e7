package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrgRepository reads organizations. Organization CRUD belongs to
// another module; the booking engine only needs the existence/active
// check on the public intake path.
type OrgRepository struct {
	db *pgxpool.Pool
}

// NewOrgRepository constructs an OrgRepository.
func NewOrgRepository(db *pgxpool.Pool) *OrgRepository {
	return &OrgRepository{db: db}
}

// GetByID returns an organization or ErrNotFound.
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var o model.Organization
	err := r.db.QueryRow(ctx,
		`SELECT id, name, active FROM organizations WHERE id = $1`,
		id,
	).Scan(&o.ID, &o.Name, &o.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}
