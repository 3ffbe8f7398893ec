package profile

import (
	"time"

	"lodgecred/internal/domain/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusVerified  Status = "VERIFIED"
	StatusRejected  Status = "REJECTED"
	StatusSuspended Status = "SUSPENDED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

// SelfEditable reports whether the owner may still change the
// self-reported fields.
func (s Status) SelfEditable() bool {
	return s == StatusPending || s == StatusRejected
}

type DocumentKind string

const (
	DocDuesCard             DocumentKind = "dues_card"
	DocCertificate          DocumentKind = "certificate"
	DocLetterOfIntroduction DocumentKind = "letter_of_introduction"
)

var DocumentKinds = []DocumentKind{DocDuesCard, DocCertificate, DocLetterOfIntroduction}

func ParseDocumentKind(s string) (DocumentKind, bool) {
	for _, k := range DocumentKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Column is the profile column holding the document address.
func (k DocumentKind) Column() string {
	switch k {
	case DocDuesCard:
		return "dues_card_image_url"
	case DocCertificate:
		return "certificate_image_url"
	case DocLetterOfIntroduction:
		return "letter_of_introduction_url"
	}
	return ""
}

func (k DocumentKind) Label() string {
	switch k {
	case DocDuesCard:
		return "Dues Card"
	case DocCertificate:
		return "Certificate"
	case DocLetterOfIntroduction:
		return "Letter of Introduction"
	}
	return string(k)
}

// Profile is the member record under review. One per identity.
type Profile struct {
	ID                      string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID                  int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	User                    *auth.User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	FullName                string     `gorm:"not null" json:"full_name"`
	LodgeName               string     `gorm:"not null" json:"lodge_name"`
	LodgeNumber             string     `gorm:"not null" json:"lodge_number"`
	GrandLodge              string     `gorm:"not null" json:"grand_lodge"`
	RitualWorkText          string     `json:"ritual_work_text"`
	Rank                    *string    `json:"rank,omitempty"`
	Status                  Status     `gorm:"type:varchar(16);not null;default:PENDING;index" json:"status"`
	DuesCardImageURL        *string    `json:"dues_card_image_url"`
	CertificateImageURL     *string    `json:"certificate_image_url"`
	LetterOfIntroductionURL *string    `json:"letter_of_introduction_url"`
	DuesPaidThrough         *time.Time `gorm:"type:date" json:"dues_paid_through"`
	VerifiedAt              *time.Time `json:"verified_at"`
	VerifiedBy              *int64     `json:"verified_by"`
	AdminNote               *string    `json:"admin_note"`
	CreatedAt               time.Time  `gorm:"index" json:"created_at"`
}

func (Profile) TableName() string { return "member_profiles" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	return nil
}

// Document returns the stored address for kind, nil when not uploaded.
func (p *Profile) Document(kind DocumentKind) *string {
	switch kind {
	case DocDuesCard:
		return p.DuesCardImageURL
	case DocCertificate:
		return p.CertificateImageURL
	case DocLetterOfIntroduction:
		return p.LetterOfIntroductionURL
	}
	return nil
}

func (p *Profile) SetDocument(kind DocumentKind, url string) {
	switch kind {
	case DocDuesCard:
		p.DuesCardImageURL = &url
	case DocCertificate:
		p.CertificateImageURL = &url
	case DocLetterOfIntroduction:
		p.LetterOfIntroductionURL = &url
	}
}

// Counts are the per-view totals shown on the admin dashboard.
type Counts struct {
	Pending             int64 `json:"pending"`
	Verified            int64 `json:"verified"`
	RejectedOrSuspended int64 `json:"rejected_or_suspended"`
	All                 int64 `json:"all"`
}
