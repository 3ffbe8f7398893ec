package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger and installs it as zap's global logger so
// packages without an injected logger (database, mailer) still log.
func New(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
