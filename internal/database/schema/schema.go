// Package schema owns the table list; it lives apart from database so
// domain tests can open a connection without importing every model.
package schema

import (
	"lodgecred/internal/domain/auth"
	"lodgecred/internal/domain/lodge"
	"lodgecred/internal/domain/profile"
	"lodgecred/internal/domain/upload"

	"gorm.io/gorm"
)

// Models in dependency order.
func Models() []any {
	return []any{
		&auth.User{},
		&auth.AuthCode{},
		&profile.Profile{},
		&lodge.GrandLodge{},
		&upload.Document{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
