package storage

import (
	"errors"
	"strings"

	"github.com/ericogr/pikabattle/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetNarrationByKey(key string) (*game.GeneratedNarration, error) {
	var n game.GeneratedNarration
	if err := r.db.Where("narration_key = ?", key).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *sqliteRepository) SaveNarration(key, kind, text string) error {
	if strings.TrimSpace(key) == "" {
		return gorm.ErrInvalidData
	}
	n := game.GeneratedNarration{NarrationKey: key, Kind: kind, Text: text}
	// Upsert keyed by narration_key so a regenerated narration replaces
	// the previous row instead of tripping the unique index.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "narration_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "text", "updated_at"}),
	}).Create(&n).Error
}
