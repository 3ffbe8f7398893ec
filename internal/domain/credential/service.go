package credential

import (
	"context"
	"errors"
	"net/url"
	"time"

	"lodgecred/internal/domain/profile"
	"lodgecred/internal/pkg/jwt"
	"lodgecred/internal/pkg/metrics"
	"lodgecred/internal/storage"
)

type verifiedReader interface {
	GetVerifiedByID(ctx context.Context, id string) (*profile.Profile, error)
}

type documentStore interface {
	KeyOf(addr string) (string, bool)
	Open(ctx context.Context, key string) (*storage.Object, error)
}

type viewTokens interface {
	GenerateViewToken(profileID string, issuedAt time.Time, ttl time.Duration) (string, error)
	ValidateViewToken(token, profileID string) (*jwt.ViewClaims, error)
}

// publicDocuments are the slots linked from the public page, in display
// order.
var publicDocuments = []struct {
	Kind  profile.DocumentKind
	Label string
}{
	{profile.DocDuesCard, "Dues Card"},
	{profile.DocCertificate, "Grand Lodge Certificate"},
}

type DocumentLink struct {
	Kind   profile.DocumentKind `json:"kind"`
	Label  string               `json:"label"`
	Href   string               `json:"href,omitempty"`
	Active bool                 `json:"active"`
}

type WindowView struct {
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
	Remaining  string    `json:"remaining"`
}

// View is the public credential payload. It carries no admin fields.
type View struct {
	ID              string         `json:"id"`
	FullName        string         `json:"full_name"`
	LodgeName       string         `json:"lodge_name"`
	LodgeNumber     string         `json:"lodge_number"`
	GrandLodge      string         `json:"grand_lodge"`
	RitualWorkText  string         `json:"ritual_work_text"`
	DuesPaidThrough string         `json:"dues_paid_through"`
	Status          profile.Status `json:"status"`
	Documents       []DocumentLink `json:"documents"`
	Window          WindowView     `json:"view_window"`
	ViewToken       string         `json:"view_token"`
}

type Service struct {
	profiles  verifiedReader
	documents documentStore
	tokens    viewTokens
	ttl       time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(profiles verifiedReader, documents documentStore, tokens viewTokens, ttl time.Duration, m *metrics.Metrics) *Service {
	if ttl <= 0 {
		ttl = DefaultViewTTL
	}
	return &Service{
		profiles:  profiles,
		documents: documents,
		tokens:    tokens,
		ttl:       ttl,
		metrics:   m,
		now:       time.Now,
	}
}

// View loads a verified credential and opens a fresh view window. Every
// miss reads as ErrCredentialNotFound.
func (s *Service) View(ctx context.Context, id string) (*View, error) {
	p, err := s.profiles.GetVerifiedByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			s.metrics.IncCredentialView("not_found")
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}

	now := s.now()
	window := NewViewWindow(now, s.ttl)
	token, err := s.tokens.GenerateViewToken(p.ID, window.IssuedAt, s.ttl)
	if err != nil {
		return nil, err
	}
	s.metrics.IncCredentialView("shown")

	return &View{
		ID:              p.ID,
		FullName:        p.FullName,
		LodgeName:       p.LodgeName,
		LodgeNumber:     p.LodgeNumber,
		GrandLodge:      p.GrandLodge,
		RitualWorkText:  p.RitualWorkText,
		DuesPaidThrough: DuesPaidThrough(p),
		Status:          p.Status,
		Documents:       DocumentLinks(p, token, window, now),
		Window: WindowView{
			IssuedAt:   window.IssuedAt,
			ExpiresAt:  window.ExpiresAt,
			TTLSeconds: int(s.ttl / time.Second),
			Remaining:  FormatRemaining(window.Remaining(now)),
		},
		ViewToken: token,
	}, nil
}

// DocumentLinks lists the uploaded public documents of p. Once the window
// has elapsed the links stay listed but inactive and without an address.
func DocumentLinks(p *profile.Profile, token string, window ViewWindow, now time.Time) []DocumentLink {
	expired := window.Expired(now)
	links := make([]DocumentLink, 0, len(publicDocuments))
	for _, d := range publicDocuments {
		if p.Document(d.Kind) == nil {
			continue
		}
		link := DocumentLink{Kind: d.Kind, Label: d.Label, Active: !expired}
		if !expired {
			link.Href = documentPath(p.ID, d.Kind, token)
		}
		links = append(links, link)
	}
	return links
}

func documentPath(id string, kind profile.DocumentKind, token string) string {
	return "/api/v1/credentials/" + url.PathEscape(id) + "/documents/" + string(kind) + "?token=" + url.QueryEscape(token)
}

// OpenDocument opens a public document of credential id while token is
// inside its window. The blob is only reachable this way or by its owner.
func (s *Service) OpenDocument(ctx context.Context, id, rawKind, token string) (*storage.Object, error) {
	addr, err := s.resolveDocument(ctx, id, rawKind, token)
	if err != nil {
		return nil, err
	}
	key, ok := s.documents.KeyOf(addr)
	if !ok {
		return nil, ErrDocumentNotUploaded
	}
	obj, err := s.documents.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDocumentNotUploaded
		}
		return nil, err
	}
	return obj, nil
}

func (s *Service) resolveDocument(ctx context.Context, id, rawKind, token string) (string, error) {
	kind, ok := publicKind(rawKind)
	if !ok {
		return "", ErrDocumentNotUploaded
	}
	if token == "" {
		return "", ErrInvalidViewToken
	}
	if _, err := s.tokens.ValidateViewToken(token, id); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return "", ErrPageExpired
		}
		return "", ErrInvalidViewToken
	}

	p, err := s.profiles.GetVerifiedByID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return "", ErrCredentialNotFound
		}
		return "", err
	}

	addr := p.Document(kind)
	if addr == nil {
		return "", ErrDocumentNotUploaded
	}
	return *addr, nil
}

func publicKind(raw string) (profile.DocumentKind, bool) {
	for _, d := range publicDocuments {
		if string(d.Kind) == raw {
			return d.Kind, true
		}
	}
	return "", false
}
