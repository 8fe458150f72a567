// Package matchlog records the gameplay events of a simulation run into a
// SQLite database so finished matches can be queried afterwards.
package matchlog

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the match log owns.
var Models = []any{
	&Match{},
	&Event{},
}

// Match is one recorded run.
type Match struct {
	gorm.Model
	Seed     string  `json:"seed" gorm:"size:20"`
	Arena    string  `json:"arena" gorm:"size:64"`
	Frames   uint64  `json:"frames"`
	GameTime float64 `json:"gameTime"`
}

// Event is one published gameplay event. Player is the name of the player
// the event belongs to, or empty when it cannot be attributed.
type Event struct {
	ID       uint    `json:"id" gorm:"primarykey;autoIncrement;"`
	MatchID  uint    `json:"matchId" gorm:"index:idx_match_event_match_id"`
	Frame    uint64  `json:"frame" gorm:"index:idx_match_event_frame"`
	GameTime float64 `json:"gameTime"`
	Type     string  `json:"type" gorm:"size:32;index:idx_match_event_type"`
	Player   string  `json:"player" gorm:"size:32;index:idx_match_event_player"`
	Vehicle  string  `json:"vehicle" gorm:"size:16"`
	Weapon   string  `json:"weapon" gorm:"size:16"`
	Detail   string  `json:"detail" gorm:"size:32"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

func (*Event) TableName() string {
	return "match_events"
}

// Open opens the SQLite database at path, creating it if needed, and
// migrates the schema. An empty path opens a private in-memory database.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open match log: %w", err)
	}

	// every connection to :memory: is its own database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate match log: %w", err)
	}
	return db, nil
}

// Close releases the database handle.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
