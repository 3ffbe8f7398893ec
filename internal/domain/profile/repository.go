package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.first(ctx, r.db.Where("id = ?", id))
}

// GetVerifiedByID only finds VERIFIED profiles; any other status reads as
// not found.
func (r *Repository) GetVerifiedByID(ctx context.Context, id string) (*Profile, error) {
	return r.first(ctx, r.db.Where("id = ? AND status = ?", id, StatusVerified))
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	return r.first(ctx, r.db.Where("user_id = ?", userID))
}

func (r *Repository) first(ctx context.Context, q *gorm.DB) (*Profile, error) {
	var p Profile
	if err := q.WithContext(ctx).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ApplyTransition writes every transition field in one statement. Last
// write wins.
func (r *Repository) ApplyTransition(ctx context.Context, id string, t Transition) error {
	return r.updateWhere(ctx, r.db.Where("id = ?", id), t.Fields())
}

// UpdateDocument stores url in the slot for kind on the profile owned by
// userID.
func (r *Repository) UpdateDocument(ctx context.Context, userID int64, kind DocumentKind, url string) error {
	col := kind.Column()
	if col == "" {
		return errors.New("unknown document kind")
	}
	return r.updateWhere(ctx, r.db.Where("user_id = ?", userID), map[string]any{col: url})
}

// UpdateSelf applies owner edits while the profile is still editable.
func (r *Repository) UpdateSelf(ctx context.Context, userID int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ? AND status IN ?", userID, []Status{StatusPending, StatusRejected}).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.GetByUserID(ctx, userID); err != nil {
		return err
	}
	return ErrProfileLocked
}

// UpdateFields writes admin-maintained columns by profile id.
func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.updateWhere(ctx, r.db.Where("id = ?", id), fields)
}

func (r *Repository) updateWhere(ctx context.Context, q *gorm.DB, fields map[string]any) error {
	res := q.WithContext(ctx).Model(&Profile{}).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// List returns profiles with any of statuses, newest first. No statuses
// means all profiles.
func (r *Repository) List(ctx context.Context, statuses ...Status) ([]Profile, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []Profile
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	var rows []struct {
		Status Status
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&Profile{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, row := range rows {
		switch row.Status {
		case StatusPending:
			c.Pending = row.N
		case StatusVerified:
			c.Verified = row.N
		case StatusRejected, StatusSuspended:
			c.RejectedOrSuspended += row.N
		}
		c.All += row.N
	}
	return c, nil
}
