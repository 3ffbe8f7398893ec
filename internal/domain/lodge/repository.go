package lodge

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every grand lodge ordered by state.
func (r *Repository) List(ctx context.Context) ([]GrandLodge, error) {
	var out []GrandLodge
	if err := r.db.WithContext(ctx).Order("state, name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure inserts g unless a grand lodge with the same name exists.
func (r *Repository) Ensure(ctx context.Context, g *GrandLodge) error {
	return r.db.WithContext(ctx).
		Where(GrandLodge{Name: g.Name}).
		Attrs(GrandLodge{State: g.State, Abbreviation: g.Abbreviation}).
		FirstOrCreate(g).Error
}
