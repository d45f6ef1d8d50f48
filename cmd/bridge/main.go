package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ddnet-bridge/internal/bridge"
	"ddnet-bridge/internal/econ"
	"ddnet-bridge/internal/generator"
	"ddnet-bridge/internal/platform/config"
	"ddnet-bridge/internal/platform/logger"
	"ddnet-bridge/internal/platform/metrics"
	"ddnet-bridge/internal/preset"
	"ddnet-bridge/internal/random"
	"ddnet-bridge/internal/status"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	host           string
	port           int
	password       string
	bufferSize     int
	interval       time.Duration
	connectTimeout time.Duration
	debug          bool

	maxRetries    int
	maxIterations int
	defaultGen    string
	defaultMap    string
	bootstrapSeed string
	presetsDir    string
	mapsDir       string
	mapName       string
	registerVotes bool

	statusAddr string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	_ = config.Load()

	opts := options{
		host:           config.GetEnv("ECON_HOST", "localhost"),
		port:           config.GetEnvInt("ECON_PORT", 0),
		password:       config.GetEnv("ECON_PASSWORD", ""),
		bufferSize:     config.GetEnvInt("ECON_BUFFER", econ.DefaultBufferSize),
		interval:       config.GetEnvDuration("ECON_INTERVAL", econ.DefaultPollInterval),
		connectTimeout: config.GetEnvDuration("ECON_CONNECT_TIMEOUT", econ.DefaultConnectTimeout),
		maxRetries:     config.GetEnvInt("MAX_RETRIES", bridge.DefaultMaxRetries),
		maxIterations:  config.GetEnvInt("MAX_ITERATIONS", bridge.DefaultMaxIterations),
		defaultGen:     config.GetEnv("DEFAULT_GEN_CONFIG", "hardly"),
		defaultMap:     config.GetEnv("DEFAULT_MAP_CONFIG", "default"),
		bootstrapSeed:  config.GetEnv("BOOTSTRAP_SEED", "0"),
		presetsDir:     config.GetEnv("PRESETS_DIR", ""),
		mapsDir:        config.GetEnv("MAPS_DIR", "maps"),
		mapName:        config.GetEnv("MAP_NAME", bridge.DefaultMapName),
		registerVotes:  config.GetEnvBool("REGISTER_VOTES", true),
		statusAddr:     config.GetEnv("STATUS_ADDR", ":9100"),
		logLevel:       config.GetEnv("LOG_LEVEL", "info"),
		logFormat:      config.GetEnv("LOG_FORMAT", "json"),
	}

	cmd := &cobra.Command{
		Use:          "ddnet-bridge [econ_pass] [econ_port]",
		Short:        "Detect DDNet-Server votes via econ to trigger map generations",
		Version:      "0.1a",
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.password = args[0]
			}
			if len(args) > 1 {
				port, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid econ_port %q: %w", args[1], err)
				}
				opts.port = port
			}
			if opts.password == "" {
				return errors.New("econ password required (argument or ECON_PASSWORD)")
			}
			if opts.port <= 0 || opts.port > 65535 {
				return errors.New("econ port required (argument or ECON_PORT)")
			}
			if opts.debug {
				opts.logLevel = "debug"
			}
			return run(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.host, "host", opts.host, "econ host")
	f.IntVarP(&opts.bufferSize, "telnet-buffer", "b", opts.bufferSize, "econ read buffer size in bytes")
	f.DurationVarP(&opts.interval, "telnet-interval", "i", opts.interval, "how long each read waits for econ data")
	f.BoolVarP(&opts.debug, "debug", "d", false, "log every received econ chunk")
	f.StringVar(&opts.presetsDir, "presets", opts.presetsDir, "directory with gen/*.yaml and map/*.yaml presets")
	f.StringVar(&opts.mapsDir, "maps-dir", opts.mapsDir, "directory the server loads maps from")
	f.StringVar(&opts.statusAddr, "status-addr", opts.statusAddr, "status HTTP listen address, empty to disable")
	return cmd
}

func run(ctx context.Context, opts options) error {
	log := logger.New(opts.logLevel, opts.logFormat)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	presets, err := preset.Load(opts.presetsDir)
	if err != nil {
		log.Error("load presets failed", slog.String("error", err.Error()))
		return err
	}
	met := metrics.New()

	var srv *http.Server
	if opts.statusAddr != "" {
		srv = &http.Server{
			Addr:    opts.statusAddr,
			Handler: status.NewRouter(status.NewHandler(presets, log), log, met),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("status server error", slog.String("error", err.Error()))
			}
		}()
	}

	link, err := econ.Dial(ctx, opts.host, opts.port, econ.Options{
		BufferSize:     opts.bufferSize,
		PollInterval:   opts.interval,
		ConnectTimeout: opts.connectTimeout,
	})
	if err != nil {
		log.Error("could not establish econ connection", slog.String("error", err.Error()))
		return err
	}
	defer link.Close()

	ctrl, err := bridge.New(bridge.Config{
		Password:          opts.password,
		MaxRetries:        opts.maxRetries,
		MaxIterations:     opts.maxIterations,
		DefaultGeneration: opts.defaultGen,
		DefaultMap:        opts.defaultMap,
		BootstrapSeed:     random.FromReason(opts.bootstrapSeed),
		MapsDir:           opts.mapsDir,
		MapName:           opts.mapName,
		RegisterVotes:     opts.registerVotes,
	}, bridge.Deps{
		Console:  link,
		Engine:   generator.Walker{},
		Exporter: generator.FileExporter{},
		Presets:  presets,
		Log:      log,
		Metrics:  met,
	})
	if err != nil {
		log.Error("invalid bridge configuration", slog.String("error", err.Error()))
		return err
	}

	log.Info("bridge starting",
		slog.String("econ_host", opts.host),
		slog.Int("econ_port", opts.port),
		slog.String("status_addr", opts.statusAddr),
		slog.Int("max_retries", opts.maxRetries),
		slog.String("log_level", opts.logLevel),
	)

	runErr := ctrl.Run(ctx)
	if runErr != nil {
		log.Error("bridge stopped", slog.String("error", runErr.Error()))
	} else {
		log.Info("shutdown signal received")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("status server shutdown error", slog.String("error", err.Error()))
		}
	}
	return runErr
}
