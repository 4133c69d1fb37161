package storage

import (
	"github.com/ericogr/pikabattle/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite narration cache at dataSourceName and
// keeps its schema current. An in-memory DSN such as
// "file::memory:?cache=shared" gives a cache that lives for the process.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.GeneratedNarration{}); err != nil {
		return nil, err
	}
	return db, nil
}
