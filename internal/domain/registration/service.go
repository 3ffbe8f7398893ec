package registration

import (
	"context"

	"lodgecred/internal/domain/auth"
	"lodgecred/internal/domain/profile"
	"lodgecred/internal/pkg/dberr"
	"lodgecred/internal/pkg/metrics"
	"lodgecred/internal/pkg/validator"

	"go.uber.org/zap"
)

const SuccessMessage = "Account created successfully. Please check your email to verify your account."

type identities interface {
	CreateIdentity(ctx context.Context, email, password, fullName string) (*auth.User, error)
	DeleteIdentity(ctx context.Context, userID int64) error
	SendSignupConfirmation(ctx context.Context, u *auth.User) error
}

type profileCreator interface {
	Create(ctx context.Context, p *profile.Profile) error
}

type refresher interface {
	Refresh(ctx context.Context)
}

type Service struct {
	identities identities
	profiles   profileCreator
	live       refresher
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewService(ids identities, profiles profileCreator, live refresher, m *metrics.Metrics, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{identities: ids, profiles: profiles, live: live, metrics: m, log: log}
}

// ValidateSignup runs every check that needs no storage. Text fields are
// judged after trimming.
func ValidateSignup(req SignupRequest) error {
	req = req.normalized()
	if len(req.Password) < auth.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if req.ConfirmPassword != nil && *req.ConfirmPassword != req.Password {
		return ErrPasswordMismatch
	}
	if fields := validator.Validate(req); fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Signup creates the identity and its PENDING profile. A failed profile
// insert removes the identity again.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*auth.User, error) {
	req = req.normalized()
	if err := ValidateSignup(req); err != nil {
		s.metrics.IncRegistration("invalid")
		return nil, err
	}

	u, err := s.identities.CreateIdentity(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		s.metrics.IncRegistration("identity_failed")
		return nil, err
	}

	p := &profile.Profile{
		UserID:         u.ID,
		FullName:       req.FullName,
		LodgeName:      req.LodgeName,
		LodgeNumber:    req.LodgeNumber,
		GrandLodge:     req.GrandLodge,
		RitualWorkText: req.RitualWorkText,
		Status:         profile.StatusPending,
	}
	if err := s.profiles.Create(ctx, p); err != nil {
		if delErr := s.identities.DeleteIdentity(ctx, u.ID); delErr != nil {
			s.log.Error("signup_rollback_failed", zap.Int64("user_id", u.ID), zap.Error(delErr))
		}
		s.metrics.IncRegistration("profile_failed")
		return nil, classifyProfileError(err)
	}

	if err := s.identities.SendSignupConfirmation(ctx, u); err != nil {
		s.log.Warn("signup_confirmation_failed", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	s.metrics.IncRegistration("created")
	s.log.Info("member_registered", zap.Int64("user_id", u.ID), zap.String("profile_id", p.ID))
	if s.live != nil {
		s.live.Refresh(ctx)
	}
	return u, nil
}

func classifyProfileError(err error) error {
	switch {
	case dberr.IsUniqueViolation(err):
		return ErrDuplicateDetails
	case dberr.IsForeignKeyViolation(err):
		return ErrDuplicateEmail
	default:
		return err
	}
}
