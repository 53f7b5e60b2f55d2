package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/m5node/cmd"
	"github.com/smazurov/m5node/internal/api"
	"github.com/smazurov/m5node/internal/config"
	"github.com/smazurov/m5node/internal/device"
	"github.com/smazurov/m5node/internal/dispatcher"
	"github.com/smazurov/m5node/internal/events"
	"github.com/smazurov/m5node/internal/logging"
	"github.com/smazurov/m5node/internal/metrics"
	"github.com/smazurov/m5node/internal/nats"
	"github.com/smazurov/m5node/internal/systemd"
	"github.com/smazurov/m5node/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port       string `help:"Address to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`
	CORSOrigin string `help:"Allowed CORS origin" default:"*" toml:"server.cors_origin" env:"SERVER_CORS_ORIGIN"`

	// Auth settings, empty username disables auth
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Device settings
	DeviceDriver string `help:"Board driver (sim, noop)" default:"sim" toml:"device.driver" env:"DEVICE_DRIVER"`

	// NATS settings
	NatsEnabled  bool   `help:"Serve commands over NATS" default:"true" toml:"nats.enabled" env:"NATS_ENABLED"`
	NatsEmbedded bool   `help:"Run an embedded NATS server" default:"true" toml:"nats.embedded" env:"NATS_EMBEDDED"`
	NatsURL      string `help:"NATS server URL when not embedded" default:"nats://127.0.0.1:4222" toml:"nats.url" env:"NATS_URL"`
	NatsPort     int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`
	NatsNode     string `help:"Node name used in NATS subjects" default:"default" toml:"nats.node" env:"NATS_NODE"`

	// Metrics settings
	MetricsEnabled bool `help:"Serve Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Systemd settings
	SystemdControl bool   `help:"Expose unit status and restart endpoints" default:"false" toml:"systemd.enabled" env:"SYSTEMD_ENABLED"`
	SystemdUnit    string `help:"Unit controlled by the systemd endpoints" default:"m5node.service" toml:"systemd.unit" env:"SYSTEMD_UNIT"`
	SystemdUser    bool   `help:"Use the user service manager" default:"false" toml:"systemd.user" env:"SYSTEMD_USER"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingDispatcher string `help:"Dispatcher logging level" default:"" toml:"logging.modules.dispatcher" env:"LOGGING_DISPATCHER"`
	LoggingAPI        string `help:"API logging level" default:"" toml:"logging.modules.api" env:"LOGGING_API"`
	LoggingNATS       string `help:"NATS logging level" default:"" toml:"logging.modules.nats" env:"LOGGING_NATS"`
}

// loggingConfig merges the [logging.modules] table with the per-module flags.
func loggingConfig(opts *Options) logging.Config {
	cfg := logging.Config{
		Level:   opts.LoggingLevel,
		Format:  opts.LoggingFormat,
		Modules: map[string]string{},
	}
	if fileCfg, err := config.ReadLoggingConfig(opts.Config); err == nil {
		for module, level := range fileCfg.Modules {
			cfg.Modules[module] = level
		}
	}
	for module, level := range map[string]string{
		"dispatcher": opts.LoggingDispatcher,
		"api":        opts.LoggingAPI,
		"nats":       opts.LoggingNATS,
	} {
		if level != "" {
			cfg.Modules[module] = level
		}
	}
	return cfg
}

// node holds everything the server command starts, in start order.
type node struct {
	logger       *slog.Logger
	natsServer   *nats.Server
	natsClient   *nats.Client
	natsService  *nats.Service
	natsBridge   *nats.Bridge
	unitManager  *systemd.Manager
	server       *api.Server
	watcher      *config.Watcher[logging.Config]
	notifier     *systemd.Notifier
	stopWatchdog context.CancelFunc
}

// startNode wires the board, dispatcher and transports and binds the HTTP
// listener. NATS and systemd failures degrade the node instead of failing it.
func startNode(opts *Options, eventBus *events.Bus) (*node, error) {
	n := &node{
		logger:   logging.GetLogger("main"),
		notifier: systemd.NewNotifier(logging.GetLogger("systemd")),
	}
	n.logger.Info("Starting", "version", version.String())

	board, err := device.New(opts.DeviceDriver, logging.GetLogger("device"))
	if err != nil {
		return nil, err
	}
	board = device.Serialized(board)

	dispatcherOpts := []dispatcher.Option{
		dispatcher.WithLogger(logging.GetLogger("dispatcher")),
		dispatcher.WithEventBus(eventBus),
	}
	var commandMetrics *metrics.Commands
	if opts.MetricsEnabled {
		commandMetrics = metrics.NewCommands(nil)
		dispatcherOpts = append(dispatcherOpts, dispatcher.WithRecorder(commandMetrics))
	}
	d := dispatcher.New(board, dispatcherOpts...)

	if opts.NatsEnabled {
		if err := n.startNATS(opts, d, eventBus); err != nil {
			n.stop()
			return nil, err
		}
	}

	apiOpts := &api.Options{
		AuthUsername: opts.AuthUsername,
		AuthPassword: opts.AuthPassword,
		CORSOrigin:   opts.CORSOrigin,
		Dispatcher:   d,
		Device:       board,
		DriverName:   opts.DeviceDriver,
		EventBus:     eventBus,
	}
	if commandMetrics != nil {
		apiOpts.PrometheusHandler = commandMetrics.Handler()
	}
	if n.natsClient != nil {
		apiOpts.NATSConnected = n.natsClient.IsConnected
	}

	if opts.SystemdControl {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		n.unitManager, err = systemd.NewManager(ctx, opts.SystemdUnit, opts.SystemdUser)
		cancel()
		if err != nil {
			n.logger.Warn("Systemd control unavailable", "unit", opts.SystemdUnit, "error", err)
			n.unitManager = nil
		} else {
			apiOpts.UnitManager = n.unitManager
		}
	}

	// Logging levels follow the config file without restart
	n.watcher = config.NewConfigWatcher(opts.Config, config.ReadLoggingConfig, logging.GetLogger("config"))
	n.watcher.OnReload(func(cfg logging.Config) {
		n.logger.Info("Reloading logging levels", "level", cfg.Level)
		logging.SetLevels(cfg)
	})
	if err := n.watcher.Start(); err != nil {
		n.logger.Warn("Config watcher disabled", "path", opts.Config, "error", err)
	}

	n.server = api.NewServer(apiOpts)
	if err := n.server.Listen(opts.Port); err != nil {
		n.stop()
		return nil, err
	}

	n.notifier.Ready()
	ctx, cancel := context.WithCancel(context.Background())
	n.stopWatchdog = cancel
	go n.notifier.RunWatchdog(ctx)
	return n, nil
}

func (n *node) startNATS(opts *Options, d *dispatcher.Dispatcher, eventBus *events.Bus) error {
	natsLogger := logging.GetLogger("nats")
	natsURL := opts.NatsURL
	if opts.NatsEmbedded {
		n.natsServer = nats.NewServer(nats.ServerOptions{Port: opts.NatsPort, Logger: natsLogger})
		if err := n.natsServer.Start(); err != nil {
			return err
		}
		natsURL = n.natsServer.ClientURL()
	}

	n.natsClient = nats.NewClient(natsURL, "m5node-"+opts.NatsNode, natsLogger)
	if err := n.natsClient.Connect(); err != nil {
		n.logger.Warn("NATS unavailable, serving HTTP only", "url", natsURL, "error", err)
		return nil
	}

	n.natsService = nats.NewService(n.natsClient, opts.NatsNode, d, natsLogger)
	if err := n.natsService.Start(); err != nil {
		n.logger.Warn("Failed to subscribe NATS commands", "error", err)
	}
	n.natsBridge = nats.NewBridge(n.natsClient, opts.NatsNode, eventBus, natsLogger)
	n.natsBridge.Start()
	return nil
}

// stop releases whatever startNode got to, in reverse order.
func (n *node) stop() {
	n.logger.Info("Shutting down")
	n.notifier.Stopping()
	if n.stopWatchdog != nil {
		n.stopWatchdog()
	}

	if n.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.server.Stop(ctx); err != nil {
			n.logger.Error("Error stopping HTTP server", "error", err)
		}
		cancel()
	}
	if n.watcher != nil {
		if err := n.watcher.Stop(); err != nil {
			n.logger.Warn("Error stopping config watcher", "error", err)
		}
	}
	if n.unitManager != nil {
		n.unitManager.Close()
	}
	if n.natsBridge != nil {
		n.natsBridge.Stop()
	}
	if n.natsService != nil {
		n.natsService.Stop()
	}
	if n.natsClient != nil {
		n.natsClient.Close()
	}
	if n.natsServer != nil {
		n.natsServer.Stop()
	}
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Runs for every command; side effects belong in OnStart
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(loggingConfig(opts))
		logger := logging.GetLogger("main")

		eventBus := events.New()
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(api.LogEvent(entry))
		})

		var (
			mu      sync.Mutex
			running *node
		)

		hooks.OnStart(func() {
			n, err := startNode(opts, eventBus)
			if err != nil {
				logger.Error("Failed to start", "error", err)
				os.Exit(1)
			}
			mu.Lock()
			running = n
			mu.Unlock()

			if serveErr := n.server.Serve(); serveErr != nil {
				logger.Error("HTTP server failed", "error", serveErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			mu.Lock()
			defer mu.Unlock()
			if running != nil {
				running.stop()
				running = nil
			}
		})
	})

	cli.Root().Use = version.Name
	cli.Root().Version = version.String()
	cli.Root().AddCommand(cmd.CreateCallCmd(), cmd.CreateColorsCmd())

	cli.Run()
}
