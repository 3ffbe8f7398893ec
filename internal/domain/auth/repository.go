package auth

import (
	"context"
	"errors"
	"time"

	"lodgecred/internal/pkg/dberr"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&User{}, id).Error
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repository) CreateCode(ctx context.Context, c *AuthCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ConsumeCode marks the code with codeHash as used and returns it. Unknown,
// expired and already used codes all yield ErrInvalidCode. A signup code
// also confirms the owner's email in the same transaction.
func (r *Repository) ConsumeCode(ctx context.Context, codeHash string, now time.Time) (*AuthCode, error) {
	var code AuthCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code_hash = ? AND used_at IS NULL AND expires_at > ?", codeHash, now).
			First(&code).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return err
		}

		res := tx.Model(&AuthCode{}).
			Where("id = ? AND used_at IS NULL", code.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidCode
		}
		code.UsedAt = &now

		if code.Type == CodeSignup {
			return tx.Model(&User{}).
				Where("id = ? AND email_confirmed_at IS NULL", code.UserID).
				Update("email_confirmed_at", now).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// PurgeCodes deletes codes that are used or expired before now.
func (r *Repository) PurgeCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("used_at IS NOT NULL OR expires_at <= ?", now).
		Delete(&AuthCode{})
	return res.RowsAffected, res.Error
}

// DeleteOrphanMembers removes member identities created before cutoff that
// never got a profile row. These are left behind when both the profile
// insert and its compensating delete failed during signup.
func (r *Repository) DeleteOrphanMembers(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("role = ? AND created_at < ?", RoleMember, cutoff).
		Where("NOT EXISTS (SELECT 1 FROM member_profiles p WHERE p.user_id = users.id)").
		Delete(&User{})
	return res.RowsAffected, res.Error
}
