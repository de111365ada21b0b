package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"equipstore/internal/cache"
	"equipstore/internal/config"
	"equipstore/internal/fixtures"
	"equipstore/internal/http/handlers"
	applog "equipstore/internal/log"
	"equipstore/internal/mail"
	"equipstore/internal/repos"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "equipstore",
		Short: "commercial equipment store API",
	}
	rootCmd.AddCommand(
		serveCommand(),
		seedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup opens the database and wires every service from cfg.
func setup(cfg config.Config) (*sqlx.DB, *handlers.Deps, error) {
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}

	var c cache.Cache
	if cfg.RedisAddr != "" {
		c = cache.NewRedisCache(cfg.RedisAddr, "equipstore")
		log.Printf("[cache] redis at %s", cfg.RedisAddr)
	} else {
		c = cache.NewMemory("equipstore")
	}

	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPHost != "" {
		sender = mail.SMTPSender{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.MailFrom}
	}
	mailer, err := mail.New(sender)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, handlers.NewDeps(db, cfg, c, mailer), nil
}

func loadFixtures(ctx context.Context, d *handlers.Deps, path string) error {
	f, err := fixtures.ParseFile(path)
	if err != nil {
		return err
	}
	sum, err := d.Fixtures.Apply(ctx, f)
	if err != nil {
		return err
	}
	applog.Info(nil, "fixtures.applied", map[string]any{"file": path, "created": sum.Created, "skipped": sum.Skipped})
	return nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			// Optional file logging
			if cfg.LogFile != "" {
				f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err != nil {
					log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
				} else {
					defer f.Close()
					log.SetOutput(io.MultiWriter(os.Stdout, f))
				}
			}

			db, deps, err := setup(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.FixturesFile != "" {
				if err := loadFixtures(ctx, deps, cfg.FixturesFile); err != nil {
					return fmt.Errorf("fixtures: %w", err)
				}
			}

			app := handlers.NewApp(cfg, deps)
			errc := make(chan error, 1)
			go func() { errc <- app.Listen(":" + cfg.Port) }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			log.Printf("[shutdown] draining connections")
			if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
				log.Printf("[shutdown] %v", err)
			}
			deps.Orders.WaitForMail()
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "load catalog, shipping and discount fixtures from YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, deps, err := setup(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return loadFixtures(cmd.Context(), deps, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixtures file")
	return cmd
}
