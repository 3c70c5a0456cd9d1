package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Base is embedded by gorm-backed stores.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Upsert inserts value or, when a row with the same key column exists,
// overwrites the listed columns.
func (b Base) Upsert(ctx context.Context, value any, key string, columns ...string) error {
	return b.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: key}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(value).Error
}

// IsNotFound reports whether err is gorm's missing record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
