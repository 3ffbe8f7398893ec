package auth

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User is an identity held by the auth provider. Role is set at signup
// (always member) and only changed directly in the database or by the seed
// command.
type User struct {
	ID               int64      `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"size:320;uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Role             Role       `gorm:"type:varchar(20);not null;default:member" json:"role"`
	FullName         string     `json:"full_name"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) EmailConfirmed() bool { return u.EmailConfirmedAt != nil }

type CodeType string

const (
	CodeSignup   CodeType = "signup"
	CodeRecovery CodeType = "recovery"
)

// AuthCode is a one-time code exchanged at the auth callback. Only the
// peppered hash is stored.
type AuthCode struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"index;not null"`
	User      *User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CodeHash  string     `gorm:"size:64;uniqueIndex;not null"`
	Type      CodeType   `gorm:"type:varchar(20);not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (AuthCode) TableName() string { return "auth_codes" }
