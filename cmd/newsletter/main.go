package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockedby/newsletter-light/internal/config"
	"github.com/blockedby/newsletter-light/internal/consumer"
	"github.com/blockedby/newsletter-light/internal/database"
	"github.com/blockedby/newsletter-light/internal/dispatcher"
	"github.com/blockedby/newsletter-light/internal/hooks"
	"github.com/blockedby/newsletter-light/internal/logger"
	"github.com/blockedby/newsletter-light/internal/migrator"
	"github.com/blockedby/newsletter-light/internal/nats"
	"github.com/blockedby/newsletter-light/internal/publisher"
	"github.com/blockedby/newsletter-light/internal/recipients"
	"github.com/blockedby/newsletter-light/internal/render"
	"github.com/blockedby/newsletter-light/internal/repository"
	"github.com/blockedby/newsletter-light/internal/unsubscribe"
	"github.com/blockedby/newsletter-light/internal/web"
	"github.com/blockedby/newsletter-light/internal/web/handlers"
	"github.com/blockedby/newsletter-light/migrations"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting newsletter service")

	if !config.OptionsFileExists(cfg.OptionsFile) {
		log.Warn().Str("file", cfg.OptionsFile).Msg("options file not found, using defaults: no recipients or contexts enabled")
	}
	opts, err := config.LoadOptions(cfg.OptionsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.OptionsFile).Msg("failed to load newsletter options")
	}

	site, err := render.NewSite(cfg.SiteURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid SITE_URL")
	}

	// 3. Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Migrate and connect to database
	if cfg.RunMigrations {
		m, err := migrator.NewWithFS(migrations.FS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create migrator")
		}
		if err := m.Up(ctx, cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		version, dirty, err := m.Version(ctx, cfg.DatabaseURL)
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("database migrated")
		}
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 5. Connect to NATS
	nc, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to nats, events disabled")
	} else {
		defer nc.Close()
		if err := nc.EnsureStreams(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure nats streams")
		}
	}

	var (
		sentPub  dispatcher.EventPublisher
		unsubPub unsubscribe.EventPublisher
	)
	if nc != nil {
		pub := publisher.NewNATSPublisher(nc.Conn)
		sentPub = pub
		unsubPub = pub
	}

	// 6. Initialize repositories
	usersRepo := repository.NewUsersRepository(db.Pool)
	groupsRepo := repository.NewGroupsRepository(db.Pool)
	categoriesRepo := repository.NewCategoriesRepository(db.Pool)
	profilesRepo := repository.NewProfilesRepository(db.GORM)

	// 7. Initialize services
	mailer := dispatcher.NewEmailSender(dispatcher.SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		User:        cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.MailFrom,
		FromName:    cfg.MailFromName,
		RatePerSec:  cfg.MailRatePerSec,
	}, log.Component("mailer"))

	tokens := unsubscribe.NewTokens(profilesRepo)
	authorizer, err := unsubscribe.NewAuthorizer(opts.UnsubscribeMode, tokens)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create unsubscribe authorizer")
	}

	resolver := recipients.NewResolver(usersRepo, groupsRepo, log.Component("recipients"))
	newsletter := dispatcher.NewService(opts, site, resolver, tokens, categoriesRepo, mailer, sentPub, log.Component("dispatcher"))
	unsub := unsubscribe.NewService(opts, site, authorizer, groupsRepo, usersRepo, mailer, unsubPub, log.Component("unsubscribe"))

	registry := hooks.NewRegistry()
	hooks.Bind(registry, newsletter, hooks.UnsubscribePages{Service: unsub})

	// 8. Start content consumer
	if nc != nil {
		cons := consumer.NewConsumer(nc, registry, log.Component("consumer"))
		if err := cons.Start(ctx); err != nil {
			log.Error().Err(err).Msg("failed to start content consumer")
		}
	}

	// 9. Initialize server
	server := web.NewServer(&web.Config{
		Port:           cfg.HTTPPort,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	server.RegisterHooksHandler(handlers.NewHooksHandler(registry, log.Component("hooks")))
	server.RegisterPages(web.NewPages(registry, web.NewSessions(cfg.SessionSecret), cfg.SiteName, log.Component("pages")))

	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	// 10. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}
