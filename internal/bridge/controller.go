package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"

	"ddnet-bridge/internal/generator"
	"ddnet-bridge/internal/platform/metrics"
	"ddnet-bridge/internal/preset"
	"ddnet-bridge/internal/random"
	"ddnet-bridge/internal/vote"
)

// Console literals sent by the DDNet econ.
const (
	passwordPrompt = "Enter password:"
	authSuccess    = "Authentication successful"
	wrongPassword  = "Wrong password"
)

const (
	// DefaultMaxRetries is the number of extra attempts after a failed generation.
	DefaultMaxRetries = 10
	// DefaultMaxIterations is the engine effort budget per attempt.
	DefaultMaxIterations = 200000
	// DefaultMapName is the map the server is told to load after a generation.
	DefaultMapName = "random_map"
)

// Config is the controller's static configuration.
type Config struct {
	Password string

	// MaxRetries is how many extra attempts follow a failed generation.
	MaxRetries    int
	// MaxIterations is the engine's effort budget per attempt.
	MaxIterations int

	DefaultGeneration string
	DefaultMap        string
	BootstrapSeed     random.Seed

	// MapsDir and MapName locate the exported map; the server loads MapName.
	MapsDir string
	MapName string

	// RegisterVotes publishes a vote option per preset after login.
	RegisterVotes bool
}

// Deps are the controller's collaborators. Metrics may be nil.
type Deps struct {
	Console  Console
	Engine   Engine
	Exporter Exporter
	Presets  Presets
	Log      *slog.Logger
	Metrics  *metrics.Metrics
}

// Controller owns the whole session state. It is driven by a single loop and
// is not safe for concurrent use.
type Controller struct {
	cfg      Config
	console  Console
	engine   Engine
	exporter Exporter
	presets  Presets
	log      *slog.Logger
	metrics  *metrics.Metrics

	parse func(text string) ([]vote.Event, error)

	auth      AuthState
	pending   *vote.Vote
	activeMap preset.MapConfig
}

// New returns a Controller in the unauthenticated state. The default presets
// must exist.
func New(cfg Config, deps Deps) (*Controller, error) {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MapName == "" {
		cfg.MapName = DefaultMapName
	}
	if _, ok := deps.Presets.GenerationConfig(cfg.DefaultGeneration); !ok {
		return nil, fmt.Errorf("default generation preset %q: %w", cfg.DefaultGeneration, preset.ErrUnknownPreset)
	}
	layout, ok := deps.Presets.MapConfig(cfg.DefaultMap)
	if !ok {
		return nil, fmt.Errorf("default map preset %q: %w", cfg.DefaultMap, preset.ErrUnknownPreset)
	}

	return &Controller{
		cfg:       cfg,
		console:   deps.Console,
		engine:    deps.Engine,
		exporter:  deps.Exporter,
		presets:   deps.Presets,
		log:       deps.Log,
		metrics:   deps.Metrics,
		parse:     vote.Parse,
		activeMap: layout,
	}, nil
}

// State returns the authentication phase.
func (c *Controller) State() AuthState {
	return c.auth
}

// Pending returns the vote awaiting a result, if any.
func (c *Controller) Pending() (vote.Vote, bool) {
	if c.pending == nil {
		return vote.Vote{}, false
	}
	return *c.pending, true
}

// ActiveMap returns the map preset used for the next generation.
func (c *Controller) ActiveMap() preset.MapConfig {
	return c.activeMap
}

// Run reads and handles console text until ctx is done or a fatal error
// occurs: a transport failure, a rejected password or a parser contract
// violation. It returns nil on cancellation.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		text, ok, err := c.console.Read()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := c.Handle(text); err != nil {
			return err
		}
	}
}

// Handle processes one chunk of console text. A non-nil error is fatal.
func (c *Controller) Handle(text string) error {
	c.log.Debug("recv", slog.String("data", text))

	if c.auth == Authenticated {
		return c.handleVotes(text)
	}

	switch {
	case strings.TrimSpace(text) == passwordPrompt:
		c.log.Info("sending econ login")
		return c.send(c.cfg.Password)
	case strings.HasPrefix(text, authSuccess):
		c.auth = Authenticated
		c.metrics.SetAuthenticated(true)
		c.log.Info("econ authenticated")
		if err := c.onAuthenticated(); err != nil {
			return err
		}
		return c.handleVotes(text)
	case strings.HasPrefix(text, wrongPassword):
		c.log.Error("econ rejected password")
		return ErrWrongPassword
	}
	return nil
}

// onAuthenticated publishes the vote options and generates a first map so
// the server never runs without generated content.
func (c *Controller) onAuthenticated() error {
	if c.cfg.RegisterVotes {
		if err := c.registerVotes(); err != nil {
			return err
		}
	}
	gen, _ := c.presets.GenerationConfig(c.cfg.DefaultGeneration)
	return c.generate(c.cfg.BootstrapSeed, gen, c.activeMap)
}

func (c *Controller) registerVotes() error {
	if err := c.send("clear_votes"); err != nil {
		return err
	}
	for _, name := range c.presets.GenerationNames() {
		if err := c.send(addVote(ActionGenerate + " " + name)); err != nil {
			return err
		}
	}
	for _, name := range c.presets.MapNames() {
		if err := c.send(addVote(ActionChangeLayout + " " + name)); err != nil {
			return err
		}
	}
	return nil
}

func addVote(description string) string {
	return fmt.Sprintf("add_vote %q \"info\"", strings.ReplaceAll(description, `"`, ""))
}

func (c *Controller) handleVotes(text string) error {
	events, parseErr := c.parse(text)
	for _, ev := range events {
		if err := c.handleEvent(ev); err != nil {
			return err
		}
	}
	if parseErr != nil {
		c.log.Error("vote parser contract violation", slog.String("error", parseErr.Error()))
	}
	return parseErr
}

func (c *Controller) handleEvent(ev vote.Event) error {
	switch ev.Kind {
	case vote.KindStarted:
		v := ev.Vote
		c.pending = &v
		c.metrics.IncVotesStarted()
		c.log.Info("vote started",
			slog.String("player", v.Player),
			slog.String("vote_name", v.Name),
			slog.String("reason", v.Reason))
		return nil

	case vote.KindFailed:
		c.pending = nil
		c.metrics.IncVotesFailed()
		c.log.Info("vote failed")
		return nil

	case vote.KindPassed:
		c.metrics.IncVotesPassed()
		v := c.pending
		c.pending = nil
		if v == nil {
			return c.inconsistency("vote passed but no vote was pending")
		}
		c.log.Info("vote passed", slog.String("vote_name", v.Name), slog.String("player", v.Player))
		return c.dispatch(*v)
	}
	return nil
}

func (c *Controller) dispatch(v vote.Vote) error {
	action, arg := v.Action()
	switch action {
	case ActionGenerate:
		gen, ok := c.presets.GenerationConfig(arg)
		if !ok {
			return c.unknownPreset("generation", arg)
		}
		return c.generate(random.FromReason(v.Reason), gen, c.activeMap)

	case ActionChangeLayout:
		layout, ok := c.presets.MapConfig(arg)
		if !ok {
			return c.unknownPreset("map", arg)
		}
		c.activeMap = layout
		c.metrics.IncLayoutChanges()
		c.log.Info("map layout changed", slog.String("map_config", layout.Name))
		return c.say("[LAYOUT] Map layout changed to " + layout.Name)
	}
	return c.inconsistency(fmt.Sprintf("unknown vote action %q", v.Name))
}

// generate runs attempts with seeds s, s+1, ... until one succeeds, the
// engine faults, or the retry budget is spent.
func (c *Controller) generate(seed random.Seed, gen preset.GenerationConfig, layout preset.MapConfig) error {
	for retries := c.cfg.MaxRetries; ; retries-- {
		attrs := []any{
			slog.Uint64("seed", seed.Value),
			slog.String("seed_str", seed.Text),
			slog.String("gen_config", gen.Name),
			slog.String("map_config", layout.Name),
			slog.Int("retries_left", retries),
		}
		c.log.Info("generation attempt", attrs...)
		c.metrics.IncGenerationAttempts()
		if err := c.say(fmt.Sprintf("[GEN] Generating | seed=%s gen=%s map=%s", seed, gen.Name, layout.Name)); err != nil {
			return err
		}

		m, err := c.attempt(seed, gen, layout)
		if err == nil {
			return c.publish(m, seed)
		}

		var fault *FaultError
		if errors.As(err, &fault) {
			c.metrics.IncGenerationFaults()
			c.log.Error("generator fault, not retrying",
				append(attrs, slog.Any("panic", fault.Value), slog.String("stack", string(fault.Stack)))...)
			return c.say(fmt.Sprintf("[ALERT] Generator crashed on seed=%d, map unchanged. Operator attention needed!", seed.Value))
		}

		c.metrics.IncGenerationFailures()
		c.log.Warn("generation failed", append(attrs, slog.String("error", err.Error()))...)
		if err := c.say("[GEN] Generation failed: " + err.Error()); err != nil {
			return err
		}
		if retries <= 0 {
			c.log.Warn("generation retries exhausted", slog.Int("attempts", c.cfg.MaxRetries+1))
			return c.say(fmt.Sprintf("[GEN] Giving up after %d attempts, map unchanged", c.cfg.MaxRetries+1))
		}
		seed = seed.Next()
	}
}

// attempt is the single boundary around the engine: panics become a
// *FaultError instead of unwinding the read loop.
func (c *Controller) attempt(seed random.Seed, gen preset.GenerationConfig, layout preset.MapConfig) (m *generator.Map, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, &FaultError{Value: r, Stack: debug.Stack()}
		}
	}()

	m, err = c.engine.Generate(c.cfg.MaxIterations, seed, gen, layout)
	if err == nil && m == nil {
		err = ErrNoMap
	}
	return m, err
}

// publish exports the map and tells the server to load it.
func (c *Controller) publish(m *generator.Map, seed random.Seed) error {
	path := filepath.Join(c.cfg.MapsDir, c.cfg.MapName+".map")
	if err := c.exporter.Export(m, path); err != nil {
		c.log.Error("map export failed", slog.String("path", path), slog.String("error", err.Error()))
		return c.say("[ERROR] Could not save generated map, map unchanged")
	}

	for _, cmd := range []string{"change_map " + c.cfg.MapName, "reload"} {
		if err := c.send(cmd); err != nil {
			return err
		}
	}
	c.metrics.IncGenerationsSucceeded()
	c.log.Info("map generated", slog.Uint64("seed", seed.Value), slog.String("path", path), slog.Int("steps", m.Steps))
	return c.say(fmt.Sprintf("[GEN] Done | seed=%s", seed))
}

func (c *Controller) unknownPreset(kind, name string) error {
	c.log.Warn("unknown preset", slog.String("kind", kind), slog.String("name", name))
	return c.say(fmt.Sprintf("[ERROR] Unknown %s preset %q", kind, name))
}

func (c *Controller) inconsistency(msg string) error {
	c.metrics.IncInconsistencies()
	c.log.Warn("vote inconsistency", slog.String("detail", msg))
	return c.say("[ERROR] " + msg)
}

func (c *Controller) say(msg string) error {
	return c.send("say " + msg)
}

func (c *Controller) send(cmd string) error {
	if err := c.console.Send(cmd); err != nil {
		c.log.Error("econ send failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
