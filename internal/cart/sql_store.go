package cart

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pristeneo/storefront/internal/repo"
)

// SessionRecord is the cart_sessions row backing one cart slot.
type SessionRecord struct {
	SessionID string    `gorm:"column:session_id;primaryKey;size:64"`
	Items     string    `gorm:"column:items;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (SessionRecord) TableName() string { return "cart_sessions" }

// SQLStore persists cart slots in a relational table.
type SQLStore struct {
	repo.Base
	now func() time.Time
}

func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("gorm db required")
	}
	return &SQLStore{Base: repo.NewBase(db), now: time.Now}, nil
}

// Migrate creates or updates the cart_sessions table.
func (s *SQLStore) Migrate(ctx context.Context) error {
	return s.DB(ctx).AutoMigrate(&SessionRecord{})
}

func (s *SQLStore) Load(ctx context.Context, session string) ([]LineItem, error) {
	var record SessionRecord
	err := s.DB(ctx).
		Where("session_id = ?", session).
		First(&record).Error
	if repo.IsNotFound(err) {
		return []LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeItems([]byte(record.Items)), nil
}

func (s *SQLStore) Save(ctx context.Context, session string, items []LineItem) error {
	raw, err := encodeItems(items)
	if err != nil {
		return err
	}
	record := SessionRecord{
		SessionID: session,
		Items:     string(raw),
		UpdatedAt: s.now().UTC(),
	}
	return s.Upsert(ctx, &record, "session_id", "items", "updated_at")
}

func (s *SQLStore) Clear(ctx context.Context, session string) error {
	return s.DB(ctx).
		Where("session_id = ?", session).
		Delete(&SessionRecord{}).Error
}
