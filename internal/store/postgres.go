package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DraftRecord is the saves table: one row per draft, payload is the
// serialized wire document.
type DraftRecord struct {
	ID        string `gorm:"primaryKey"`
	Payload   []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// Postgres is a Store backed by a drafts table.
type Postgres struct {
	db *gorm.DB
}

// NewPostgres connects and migrates the saves table.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&DraftRecord{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Save(ctx context.Context, id string, data []byte) error {
	rec := DraftRecord{ID: id, Payload: data, UpdatedAt: time.Now().UTC()}
	return p.db.WithContext(ctx).Save(&rec).Error
}

func (p *Postgres) Load(ctx context.Context, id string) ([]byte, error) {
	var rec DraftRecord
	err := p.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Payload, nil
}

func (p *Postgres) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := p.db.WithContext(ctx).
		Model(&DraftRecord{}).
		Order("updated_at desc").
		Pluck("id", &ids).Error
	return ids, err
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Delete(&DraftRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
