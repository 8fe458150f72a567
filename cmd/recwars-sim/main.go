// cmd/recwars-sim/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"

	"github.com/opd-ai/go-recwars/pkg/config"
	"github.com/opd-ai/go-recwars/pkg/engine"
	"github.com/opd-ai/go-recwars/pkg/entity"
	"github.com/opd-ai/go-recwars/pkg/event"
	"github.com/opd-ai/go-recwars/pkg/logging"
	"github.com/opd-ai/go-recwars/pkg/matchlog"
	"github.com/opd-ai/go-recwars/pkg/render"
	"github.com/opd-ai/go-recwars/pkg/tilemap"
	"github.com/opd-ai/go-recwars/pkg/validation"
)

// botStream separates the bots' random stream from the simulation's.
const botStream = 0xb075

var arenas = map[string][]string{
	"courtyard": tilemap.Courtyard,
	"corridor":  tilemap.Corridor,
}

// options are the runner's own flags; gameplay tunables go through viper.
type options struct {
	configPath   string
	writeDefault string
	players      int
	names        []string
	frames       int
	dt           float64
	arena        string
	frontend     string
	renderEvery  int
	realtime     bool
	matchLog     string
	metrics      string
	metricsEvery time.Duration
	logLevel     string
}

// summary is what a run reports when it is done.
type summary struct {
	Frames      uint64
	GameTime    float64
	Destroyed   int
	Spawned     int
	Vehicles    int
	Projectiles int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithSessionID(ctx, "")

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		logging.NewLoggerWithWriter(os.Stderr, logging.ParseLevel("error")).
			Error(ctx, "recwars-sim failed", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	v := viper.New()
	opts, err := parseFlags(v, args, stderr)
	if err != nil {
		return err
	}

	logger := logging.NewLoggerWithWriter(stderr, logging.ParseLevel(opts.logLevel))

	if opts.writeDefault != "" {
		if err := config.Save(config.DefaultCvars(), opts.writeDefault); err != nil {
			return logging.WrapError(err, "writing default cvars to %s", opts.writeDefault)
		}
		logger.Info(ctx, "Created default cvars file", "config_path", opts.writeDefault)
		return nil
	}

	cvars, err := config.LoadWith(v, opts.configPath)
	if err != nil {
		return logging.WrapError(err, "loading cvars from %q", opts.configPath)
	}

	sum, err := simulate(ctx, cvars, opts, stdout, logger)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Simulation finished",
		"frames", sum.Frames,
		"game_time", sum.GameTime,
		"spawned", sum.Spawned,
		"destroyed", sum.Destroyed,
		"vehicles", sum.Vehicles,
		"projectiles", sum.Projectiles,
	)
	return nil
}

// parseFlags reads the runner flags and binds the gameplay ones into v so
// they override the cvars file and the environment.
func parseFlags(v *viper.Viper, args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("recwars-sim", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to a cvars file (JSON, YAML or TOML)")
	fs.StringVar(&opts.writeDefault, "write-default", "", "Write the default cvars to this path and exit")
	fs.IntVarP(&opts.players, "players", "p", 4, "Number of bot players")
	fs.StringSliceVar(&opts.names, "names", nil, "Bot names, in join order; unnamed bots are called botN")
	fs.IntVarP(&opts.frames, "frames", "n", 3000, "Number of updates to run, 0 to run until interrupted")
	fs.Float64Var(&opts.dt, "dt", 1.0/60, "Seconds of game clock per update")
	fs.StringVar(&opts.arena, "arena", "courtyard", "Built-in arena: courtyard or corridor")
	fs.StringVar(&opts.frontend, "render", "none", "Frontend: none, log, terminal or scene")
	fs.IntVar(&opts.renderEvery, "render-every", 6, "Draw one update out of this many")
	fs.BoolVar(&opts.realtime, "realtime", false, "Pace updates to the wall clock")
	fs.StringVar(&opts.matchLog, "matchlog", "", "Record gameplay events into this SQLite file")
	fs.StringVar(&opts.metrics, "metrics", "", "Export engine metrics as JSON to this file")
	fs.DurationVar(&opts.metricsEvery, "metrics-interval", 10*time.Second, "How often to export metrics")
	fs.StringVar(&opts.logLevel, "log-level", os.Getenv(logging.LevelEnv), "Log level: debug, info, warn or error")

	fs.Uint64("seed", 0, "Simulation seed")
	fs.String("tickrate", "", "Tickrate mode: synchronized, bounded or fixed")
	fs.Bool("auto-fire", false, "Keep firing while fire is held")
	fs.Bool("strict", false, "Panic on invariant violations")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	bindings := map[string]string{
		"seed":                   "seed",
		"tickrate.mode":          "tickrate",
		"rules.autoFire":         "auto-fire",
		"rules.strictInvariants": "strict",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return opts, fmt.Errorf("binding flag %s: %w", name, err)
		}
	}

	switch {
	case opts.frames < 0:
		return opts, fmt.Errorf("frames must not be negative, got %d", opts.frames)
	case opts.players < 0:
		return opts, fmt.Errorf("players must not be negative, got %d", opts.players)
	case opts.dt <= 0:
		return opts, fmt.Errorf("dt must be positive, got %v", opts.dt)
	case opts.renderEvery < 1:
		return opts, fmt.Errorf("render-every must be at least 1, got %d", opts.renderEvery)
	case opts.metricsEvery <= 0:
		return opts, fmt.Errorf("metrics-interval must be positive, got %v", opts.metricsEvery)
	}

	names := make([]string, max(opts.players, len(opts.names)))
	for i := range names {
		if i < len(opts.names) {
			names[i] = opts.names[i]
		} else {
			names[i] = fmt.Sprintf("bot%d", i+1)
		}
	}
	names, err := validation.ValidatePlayerNames(names)
	if err != nil {
		return opts, err
	}
	opts.names = names
	opts.players = len(names)
	return opts, nil
}

// simulate runs the bots through opts.frames updates on a built-in arena.
func simulate(ctx context.Context, cvars *config.Cvars, opts options, out io.Writer, logger *logging.Logger) (summary, error) {
	rows, ok := arenas[strings.ToLower(opts.arena)]
	if !ok {
		return summary{}, fmt.Errorf("unknown arena %q", opts.arena)
	}
	grid, err := tilemap.FromRows(rows, tilemap.DefaultTileSize)
	if err != nil {
		return summary{}, logging.WrapError(err, "building arena %s", opts.arena)
	}

	frontend, err := newFrontend(opts.frontend, out, grid, logger)
	if err != nil {
		return summary{}, err
	}

	var mp metric.MeterProvider
	var export *metricsExport
	if opts.metrics != "" {
		export, err = newMetricsExport(opts.metrics, opts.metricsEvery)
		if err != nil {
			return summary{}, err
		}
		mp = export.provider
	}
	// The last export runs while the game is still open so its gauges
	// are observed.
	shutdownMetrics := func() {
		if export == nil {
			return
		}
		if err := export.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "Failed to flush metrics", "error", err)
		}
	}

	game, err := engine.NewGameWithMeterProvider(cvars, grid, logger, mp)
	if err != nil {
		shutdownMetrics()
		return summary{}, err
	}
	defer game.Close()
	defer shutdownMetrics()

	var sum summary
	game.Subscribe(event.VehicleDestroyed, func(event.Event) { sum.Destroyed++ })
	game.Subscribe(event.VehicleSpawned, func(event.Event) { sum.Spawned++ })

	var rec *matchlog.Recorder
	if opts.matchLog != "" {
		db, err := matchlog.Open(opts.matchLog)
		if err != nil {
			return summary{}, err
		}
		defer matchlog.Close(db)

		rec, err = matchlog.NewRecorder(ctx, db, cvars.Seed, opts.arena, 0, logger)
		if err != nil {
			return summary{}, err
		}
		rec.Attach(game)
	}

	handles := make([]entity.Handle, opts.players)
	bots := make([]bot, opts.players)
	for i := range handles {
		handles[i] = game.AddPlayer(ctx, opts.names[i])
	}
	rng := rand.New(rand.NewPCG(cvars.Seed, botStream))

	var ticker *time.Ticker
	if opts.realtime {
		ticker = time.NewTicker(time.Duration(opts.dt * float64(time.Second)))
		defer ticker.Stop()
	}

	now := 0.0
	for frame := 0; opts.frames == 0 || frame < opts.frames; frame++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
		if ctx.Err() != nil {
			logger.Info(ctx, "Simulation interrupted", "frame", frame)
			break
		}

		inputs := make(engine.Inputs, len(handles))
		for i, h := range handles {
			inputs[h] = bots[i].input(rng)
		}
		now += opts.dt
		game.Update(ctx, now, inputs)

		if frontend != nil && frame%opts.renderEvery == 0 {
			snap := game.Snapshot()
			if scene, ok := frontend.(*render.Scene); ok {
				scene.Sync(snap, cvars.Rules.ExplosionDuration)
			} else {
				render.Draw(snap, frontend, cvars.Rules.ExplosionDuration)
			}
		}
	}

	snap := game.Snapshot()
	sum.Frames = snap.FrameNum
	sum.GameTime = snap.GameTime
	sum.Vehicles = snap.Vehicles.Len()
	sum.Projectiles = snap.Projectiles.Len()
	if scene, ok := frontend.(*render.Scene); ok {
		logger.Info(ctx, "Scene state", "sprites", scene.Len(), "elapsed", scene.Elapsed())
	}
	if rec != nil {
		if err := finishMatchLog(context.WithoutCancel(ctx), rec, snap, logger); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

// finishMatchLog closes the recorded match and logs each player's totals.
func finishMatchLog(ctx context.Context, rec *matchlog.Recorder, snap *engine.GameState, logger *logging.Logger) error {
	if err := rec.Finish(ctx, snap.FrameNum, snap.GameTime); err != nil {
		return logging.WrapError(err, "recording match")
	}
	stats, err := rec.Stats(ctx)
	if err != nil {
		return err
	}
	for _, s := range stats {
		logger.Info(ctx, "Player totals",
			"match_id", rec.MatchID(),
			"player", s.Player,
			"spawns", s.Spawns,
			"deaths", s.Deaths,
			"shots", s.Shots,
			"hits", s.Hits,
		)
	}
	return nil
}

// newFrontend builds the renderer named by name, or nil for "none".
func newFrontend(name string, out io.Writer, grid *tilemap.Grid, logger *logging.Logger) (entity.Renderer, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "log":
		return render.NewNullRenderer(logger), nil
	case "terminal":
		bounds := grid.Bounds()
		scale := grid.TileSize() / 2
		term := render.NewTerminalRenderer(out, int(bounds.X/scale), int(bounds.Y/scale), scale)
		term.SetCenter(bounds.Scale(0.5))
		term.SetWalls(grid)
		term.SetANSI(true)
		return term, nil
	case "scene":
		return render.NewScene(), nil
	default:
		return nil, fmt.Errorf("unknown frontend %q", name)
	}
}
