package matchlog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gorm.io/gorm"

	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/logging"
)

// DefaultBatchSize is how many events a Recorder buffers before writing.
const DefaultBatchSize = 256

// ErrFinished is returned when a finished Recorder is finished again.
var ErrFinished = errors.New("match already finished")

// Subscriber is anything events can be taken from: an *engine.Game or an
// *event.Bus.
type Subscriber interface {
	Subscribe(t event.Type, h event.Handler) *event.Subscription
}

var recordedTypes = []event.Type{
	event.PlayerJoined,
	event.PlayerLeft,
	event.VehicleSpawned,
	event.VehicleDestroyed,
	event.ProjectileFired,
	event.ProjectileImpact,
	event.RailgunFired,
	event.ControlChanged,
	event.WeaponReloaded,
}

// Recorder buffers events of one match and writes them in batches.
// Attach it before players join so their names are known.
type Recorder struct {
	db     *gorm.DB
	logger *logging.Logger
	batch  int
	match  Match

	mu       sync.Mutex
	players  map[entity.Handle]string
	owners   map[entity.Handle]entity.Handle // vehicle -> player
	pending  []Event
	err      error
	subs     []*event.Subscription
	finished bool
}

// NewRecorder creates the match row and returns a recorder for it. A batch
// below 1 uses DefaultBatchSize and a nil logger discards output.
func NewRecorder(ctx context.Context, db *gorm.DB, seed uint64, arena string, batch int, logger *logging.Logger) (*Recorder, error) {
	if batch < 1 {
		batch = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	r := &Recorder{
		db:      db,
		logger:  logger,
		batch:   batch,
		match:   Match{Seed: strconv.FormatUint(seed, 10), Arena: arena},
		players: make(map[entity.Handle]string),
		owners:  make(map[entity.Handle]entity.Handle),
	}
	if err := db.WithContext(ctx).Create(&r.match).Error; err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return r, nil
}

// MatchID returns the id of the match being recorded.
func (r *Recorder) MatchID() uint {
	return r.match.ID
}

// Attach subscribes the recorder to every gameplay event of src.
func (r *Recorder) Attach(src Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range recordedTypes {
		r.subs = append(r.subs, src.Subscribe(t, r.record))
	}
}

func (r *Recorder) record(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}

	row := Event{
		MatchID:  r.match.ID,
		Frame:    e.GetFrame(),
		GameTime: e.GetTime(),
		Type:     string(e.GetType()),
	}

	switch ev := e.(type) {
	case *event.PlayerEvent:
		if ev.GetType() == event.PlayerJoined {
			r.players[ev.Player] = ev.Name
		}
		row.Player = ev.Name
	case *event.VehicleEvent:
		if ev.GetType() == event.VehicleSpawned {
			r.owners[ev.Vehicle] = ev.Player
		}
		row.Player = r.name(ev.Player)
		row.Vehicle = ev.Kind.String()
		row.X, row.Y = ev.Pos.X, ev.Pos.Y
	case *event.ShotEvent:
		row.Player = r.name(ev.Owner)
		row.Weapon = ev.Weapon.String()
		row.X, row.Y = ev.Pos.X, ev.Pos.Y
	case *event.ControlEvent:
		row.Player = r.name(ev.Player)
		row.Detail = ev.Control.String()
	case *event.ReloadEvent:
		row.Player = r.name(r.owners[ev.Vehicle])
		row.Weapon = ev.Weapon.String()
	}

	r.pending = append(r.pending, row)
	if len(r.pending) >= r.batch {
		r.flushLocked(context.Background())
	}
}

// name is the player's name, its handle when it joined before the
// recorder was attached, or empty for no player.
func (r *Recorder) name(player entity.Handle) string {
	if player.IsNil() {
		return ""
	}
	if n, ok := r.players[player]; ok {
		return n
	}
	return player.String()
}

// Flush writes the buffered events now.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked(ctx)
	return r.err
}

// flushLocked keeps the first write error; later batches are still tried.
func (r *Recorder) flushLocked(ctx context.Context) {
	if len(r.pending) == 0 {
		return
	}
	rows := r.pending
	r.pending = nil

	if err := r.db.WithContext(ctx).CreateInBatches(rows, r.batch).Error; err != nil {
		err = fmt.Errorf("failed to write %d match events: %w", len(rows), err)
		r.logger.Error(ctx, "Match log write failed", err, "match_id", r.match.ID)
		if r.err == nil {
			r.err = err
		}
	}
}

// Finish detaches the recorder, writes what is left and stores the final
// clock on the match row. It returns the first error met while recording.
func (r *Recorder) Finish(ctx context.Context, frames uint64, gameTime float64) error {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return ErrFinished
	}
	r.finished = true
	subs := r.subs
	r.subs = nil
	r.flushLocked(ctx)
	err := r.err
	r.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}

	update := map[string]any{"frames": frames, "game_time": gameTime}
	if uerr := r.db.WithContext(ctx).Model(&r.match).Updates(update).Error; uerr != nil && err == nil {
		err = fmt.Errorf("failed to finish match: %w", uerr)
	}
	r.match.Frames = frames
	r.match.GameTime = gameTime

	r.logger.Info(ctx, "Match recorded", "match_id", r.match.ID, "frames", frames)
	return err
}
