package auth

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendAuthLink(ctx context.Context, email string, codeType CodeType, link string) error
}

// DevConsoleMailer writes auth links to the log instead of sending mail.
type DevConsoleMailer struct {
	enabled bool
	log     *zap.Logger
}

func NewDevConsoleMailer(enabled bool, log *zap.Logger) *DevConsoleMailer {
	if log == nil {
		log = zap.L()
	}
	return &DevConsoleMailer{enabled: enabled, log: log}
}

func (m *DevConsoleMailer) SendAuthLink(_ context.Context, email string, codeType CodeType, link string) error {
	if m.enabled {
		m.log.Info("dev_email",
			zap.String("email", email),
			zap.String("type", string(codeType)),
			zap.String("link", link),
		)
	}
	return nil
}
