package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"

	apiPkg "github.com/jeffvincent/bug-bot/internal/api"
	"github.com/jeffvincent/bug-bot/internal/category"
	"github.com/jeffvincent/bug-bot/internal/config"
	"github.com/jeffvincent/bug-bot/internal/identity"
	"github.com/jeffvincent/bug-bot/internal/metrics"
	"github.com/jeffvincent/bug-bot/internal/notify"
	"github.com/jeffvincent/bug-bot/internal/relay"
	"github.com/jeffvincent/bug-bot/internal/slackhook"
	"github.com/jeffvincent/bug-bot/internal/tracker"
)

func main() {
	configPath := flag.String("config", "", "Path to config JSON file (default: environment)")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	// A .env file is optional; real deployments set the environment.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("bugbotd starting", "tracker", cfg.Tracker.Backend, "debug_mode", cfg.Notify.DebugMode)

	categories, err := category.ForBackend(cfg.Tracker.Backend)
	if err != nil {
		logger.Error("failed to build category registry", "error", err)
		os.Exit(1)
	}

	var store tracker.Store
	switch cfg.Tracker.Backend {
	case "trello":
		store = tracker.NewTrello(cfg.Trello.Key, cfg.Trello.Token, cfg.Trello.ListID, cfg.Trello.Org)
	default:
		var opts []tracker.ShortcutOption
		if cfg.Tracker.Workspace != "" {
			opts = append(opts, tracker.WithShortcutWorkspace(cfg.Tracker.Workspace))
		}
		store = tracker.NewShortcut(cfg.Tracker.Token, cfg.Tracker.ProjectID, opts...)
	}

	slackAPI := slack.New(cfg.Slack.AccessToken)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	resolver := identity.NewResolver(slackAPI, store, logger.With("component", "identity"))
	notifier := notify.New(slackAPI, notify.Config{
		ConfirmationChannel: cfg.Notify.ConfirmationChannel,
		DebugChannel:        cfg.Notify.DebugChannel,
		DebugMode:           cfg.Notify.DebugMode,
	}, logger.With("component", "notify"))

	svc := relay.NewService(store, resolver, categories, notifier, logger.With("component", "relay"), m)
	hooks := slackhook.New(cfg.Slack.VerificationToken, slackAPI, svc, logger.With("component", "slackhook"))

	server := apiPkg.NewServer(hooks, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), apiPkg.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("bugbotd stopped")
}
