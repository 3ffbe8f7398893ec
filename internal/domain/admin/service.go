package admin

import (
	"context"
	"strings"
	"time"

	"lodgecred/internal/domain/profile"
	"lodgecred/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	ViewPending  = "pending"
	ViewVerified = "verified"
	ViewRejected = "rejected"
	ViewAll      = "all"
)

var viewStatuses = map[string][]profile.Status{
	ViewPending:  {profile.StatusPending},
	ViewVerified: {profile.StatusVerified},
	ViewRejected: {profile.StatusRejected, profile.StatusSuspended},
	ViewAll:      nil,
}

type profileStore interface {
	List(ctx context.Context, statuses ...profile.Status) ([]profile.Profile, error)
	Counts(ctx context.Context) (profile.Counts, error)
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	ApplyTransition(ctx context.Context, id string, t profile.Transition) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// Refresher is notified whenever the dashboard counts may have changed.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Service implements the admin review workflow.
type Service struct {
	profiles profileStore
	policy   profile.NotePolicy
	live     Refresher
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewService(profiles profileStore, policy profile.NotePolicy, live Refresher, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		profiles: profiles,
		policy:   policy,
		live:     live,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// ListProfiles returns one dashboard view plus the counts of every view.
func (s *Service) ListProfiles(ctx context.Context, view string) (*ListResult, error) {
	if view == "" {
		view = ViewPending
	}
	statuses, ok := viewStatuses[view]
	if !ok {
		return nil, ErrInvalidView
	}

	profiles, err := s.profiles.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	counts, err := s.profiles.Counts(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []profile.Profile{}
	}
	return &ListResult{View: view, Profiles: profiles, Counts: counts}, nil
}

func (s *Service) Stats(ctx context.Context) (profile.Counts, error) {
	return s.profiles.Counts(ctx)
}

func (s *Service) GetProfile(ctx context.Context, id string) (*ReviewProfile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReviewProfile{Profile: p, Documents: RenderDocuments(p)}, nil
}

// Transition records an admin decision on profile id.
func (s *Service) Transition(ctx context.Context, reviewerID int64, id string, req TransitionRequest) (*profile.Profile, error) {
	t, err := profile.NewTransition(profile.Status(strings.ToUpper(strings.TrimSpace(req.Status))), req.Note, reviewerID, s.now(), s.policy)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.ApplyTransition(ctx, id, t); err != nil {
		return nil, err
	}
	s.metrics.IncTransition(string(t.Target))
	s.log.Info("profile_transition",
		zap.String("profile_id", id),
		zap.String("status", string(t.Target)),
		zap.Int64("reviewer_id", reviewerID),
	)
	s.refresh(ctx)

	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		// The decision is committed; answer with what was written.
		s.log.Warn("profile_reload_failed", zap.String("profile_id", id), zap.Error(err))
		p = &profile.Profile{ID: id}
		t.ApplyTo(p)
	}
	return p, nil
}

// UpdateRecord edits rank and dues date.
func (s *Service) UpdateRecord(ctx context.Context, id string, req UpdateRecordRequest) (*profile.Profile, error) {
	fields := map[string]any{}
	if req.Rank != nil {
		if rank := strings.TrimSpace(*req.Rank); rank != "" {
			fields["rank"] = rank
		} else {
			fields["rank"] = nil
		}
	}
	if req.DuesPaidThrough != nil {
		raw := strings.TrimSpace(*req.DuesPaidThrough)
		if raw == "" {
			fields["dues_paid_through"] = nil
		} else {
			d, err := time.Parse(time.DateOnly, raw)
			if err != nil {
				return nil, ErrInvalidDate
			}
			fields["dues_paid_through"] = d
		}
	}

	if len(fields) > 0 {
		if err := s.profiles.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
		s.refresh(ctx)
	}
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) refresh(ctx context.Context) {
	if s.live != nil {
		s.live.Refresh(ctx)
	}
}

// RenderDocuments says how each slot should be shown to a reviewer.
func RenderDocuments(p *profile.Profile) []RenderedDocument {
	out := make([]RenderedDocument, 0, len(profile.DocumentKinds))
	for _, k := range profile.DocumentKinds {
		url := p.Document(k)
		out = append(out, RenderedDocument{
			Kind:   k,
			Label:  k.Label(),
			Render: renderKind(url),
			URL:    url,
		})
	}
	return out
}

func renderKind(url *string) RenderKind {
	switch {
	case url == nil || *url == "":
		return RenderNotUploaded
	case strings.HasSuffix(strings.ToLower(*url), ".pdf"):
		return RenderPDF
	default:
		return RenderImage
	}
}
