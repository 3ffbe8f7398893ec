package auth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"
)

type userStore interface {
	Create(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	CreateCode(ctx context.Context, c *AuthCode) error
	ConsumeCode(ctx context.Context, codeHash string, now time.Time) (*AuthCode, error)
}

type tokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Options struct {
	CodePepper  string
	CodeTTL     time.Duration
	CallbackURL string
}

// Service is the in-process auth provider: identities, sessions and
// one-time codes.
type Service struct {
	users  userStore
	tokens tokenIssuer
	mailer Mailer
	opts   Options
	log    *zap.Logger
	now    func() time.Time
}

type Session struct {
	User        *User
	AccessToken string
}

type ExchangeResult struct {
	Session
	Type CodeType
}

func NewService(users userStore, tokens tokenIssuer, mailer Mailer, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// CreateIdentity registers a member identity with an unconfirmed email.
func (s *Service) CreateIdentity(ctx context.Context, email, password, fullName string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		Role:         RoleMember,
		FullName:     fullName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteIdentity(ctx context.Context, userID int64) error {
	return s.users.Delete(ctx, userID)
}

// SendSignupConfirmation mails the link that confirms u's email.
func (s *Service) SendSignupConfirmation(ctx context.Context, u *User) error {
	return s.issueCode(ctx, u, CodeSignup)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPassword(password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.EmailConfirmed() {
		return nil, ErrEmailNotConfirmed
	}
	return s.session(u)
}

// ExchangeCode trades a one-time code for a session.
func (s *Service) ExchangeCode(ctx context.Context, code string) (*ExchangeResult, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}
	ac, err := s.users.ConsumeCode(ctx, hashCode(code, s.opts.CodePepper), s.now())
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, ac.UserID)
	if err != nil {
		return nil, err
	}
	sess, err := s.session(u)
	if err != nil {
		return nil, err
	}
	return &ExchangeResult{Session: *sess, Type: ac.Type}, nil
}

// RequestRecovery mails a recovery link. Unknown emails succeed silently.
func (s *Service) RequestRecovery(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.log.Info("recovery_requested_unknown_email")
			return nil
		}
		return err
	}
	return s.issueCode(ctx, u, CodeRecovery)
}

func (s *Service) ResetPassword(ctx context.Context, userID int64, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: u, AccessToken: token}, nil
}

func (s *Service) issueCode(ctx context.Context, u *User, codeType CodeType) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	now := s.now()
	row := &AuthCode{
		UserID:    u.ID,
		CodeHash:  hashCode(code, s.opts.CodePepper),
		Type:      codeType,
		ExpiresAt: now.Add(s.opts.CodeTTL),
	}
	if err := s.users.CreateCode(ctx, row); err != nil {
		return err
	}
	return s.mailer.SendAuthLink(ctx, u.Email, codeType, s.callbackLink(code, codeType))
}

func (s *Service) callbackLink(code string, codeType CodeType) string {
	q := url.Values{}
	q.Set("code", code)
	if codeType == CodeRecovery {
		q.Set("type", string(CodeRecovery))
	}
	return s.opts.CallbackURL + "?" + q.Encode()
}
