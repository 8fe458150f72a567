package matchlog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/opd-ai/go-recwars/pkg/event"
)

// PlayerStats totals one player's events in a match.
type PlayerStats struct {
	Player string
	Spawns int
	Deaths int
	Shots  int
	Hits   int
}

// Stats returns per-player totals for a match, sorted by player name.
// Events that cannot be attributed to a player are left out.
func Stats(ctx context.Context, db *gorm.DB, matchID uint) ([]PlayerStats, error) {
	var rows []struct {
		Player string
		Type   string
		N      int
	}
	err := db.WithContext(ctx).
		Model(&Event{}).
		Select("player, type, count(*) as n").
		Where("match_id = ? AND player <> ''", matchID).
		Group("player, type").
		Order("player").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query match stats: %w", err)
	}

	var stats []PlayerStats
	for _, row := range rows {
		if len(stats) == 0 || stats[len(stats)-1].Player != row.Player {
			stats = append(stats, PlayerStats{Player: row.Player})
		}
		s := &stats[len(stats)-1]
		switch event.Type(row.Type) {
		case event.VehicleSpawned:
			s.Spawns += row.N
		case event.VehicleDestroyed:
			s.Deaths += row.N
		case event.ProjectileFired, event.RailgunFired:
			s.Shots += row.N
		case event.ProjectileImpact:
			s.Hits += row.N
		}
	}
	return stats, nil
}

// Stats returns per-player totals for the recorded match.
func (r *Recorder) Stats(ctx context.Context) ([]PlayerStats, error) {
	return Stats(ctx, r.db, r.match.ID)
}

// Matches lists recorded matches, newest first.
func Matches(ctx context.Context, db *gorm.DB) ([]Match, error) {
	var matches []Match
	if err := db.WithContext(ctx).Order("id desc").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}
