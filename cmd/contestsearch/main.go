package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/contestsearch/contestsearch/internal/api"
	"github.com/contestsearch/contestsearch/internal/cache"
	"github.com/contestsearch/contestsearch/internal/config"
	"github.com/contestsearch/contestsearch/internal/indexing"
	"github.com/contestsearch/contestsearch/internal/indexing/problem"
	"github.com/contestsearch/contestsearch/internal/indexing/recommend"
	"github.com/contestsearch/contestsearch/internal/indexing/user"
	logpkg "github.com/contestsearch/contestsearch/internal/logger"
	"github.com/contestsearch/contestsearch/internal/postgres"
	"github.com/contestsearch/contestsearch/internal/solr"
)

func main() {
	app := &cli.Command{
		Name:  "contestsearch",
		Usage: "Index and search competitive programming problems and users",
		Commands: []*cli.Command{
			generateCommand(),
			postCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (config.Config, *zap.Logger, error) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func domainFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "domain",
		Usage:    "target domain: problem, user, or recommend",
		Required: true,
	}
}

func saveDir(cfg config.Config, c *cli.Command, domain string) string {
	if dir := c.String("save-dir"); dir != "" {
		return dir
	}
	return filepath.Join(cfg.Generate.SaveDir, domain)
}

func coreName(cfg config.Config, domain string) (string, error) {
	switch domain {
	case "problem":
		return cfg.Solr.ProblemCore, nil
	case "user":
		return cfg.Solr.UserCore, nil
	case "recommend":
		return cfg.Solr.RecommendCore, nil
	default:
		return "", fmt.Errorf("unknown domain %q", domain)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate document files for one domain",
		Flags: []cli.Flag{
			domainFlag(),
			&cli.StringFlag{Name: "save-dir", Usage: "directory for the generated files"},
			&cli.IntFlag{Name: "concurrency", Usage: "transform workers (0 = NumCPU)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := postgres.Connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			domain := c.String("domain")
			dir := saveDir(cfg, c, domain)
			concurrency := int(c.Int("concurrency"))
			if concurrency == 0 {
				concurrency = cfg.Generate.Concurrency
			}

			type runner interface {
				Run(ctx context.Context) error
			}
			var gen runner
			switch domain {
			case "problem":
				gen, err = problem.NewGenerator(db, dir, concurrency, logger)
			case "user":
				gen, err = user.NewGenerator(db, dir, concurrency, logger)
			case "recommend":
				gen, err = recommend.NewGenerator(db, dir, concurrency, logger)
			default:
				return fmt.Errorf("unknown domain %q", domain)
			}
			if err != nil {
				return err
			}

			start := time.Now()
			if err := gen.Run(ctx); err != nil {
				return fmt.Errorf("generate %s documents: %w", domain, err)
			}
			logger.Info("generation finished",
				zap.String("domain", domain),
				zap.String("save_dir", dir),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		},
	}
}

func postCommand() *cli.Command {
	return &cli.Command{
		Name:  "post",
		Usage: "Post generated document files to the search engine",
		Flags: []cli.Flag{
			domainFlag(),
			&cli.StringFlag{Name: "save-dir", Usage: "directory holding the generated files"},
			&cli.BoolFlag{Name: "truncate", Usage: "empty the core before posting", Value: true},
			&cli.BoolFlag{Name: "optimize", Usage: "optimize the index after committing"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			domain := c.String("domain")
			name, err := coreName(cfg, domain)
			if err != nil {
				return err
			}
			core, err := solr.NewCore(name, cfg.Solr.Host)
			if err != nil {
				return err
			}
			if _, err := core.Ping(ctx); err != nil {
				return fmt.Errorf("engine is not reachable: %w", err)
			}

			uploader := indexing.NewUploader(core, c.Bool("truncate"), c.Bool("optimize"), logger)
			start := time.Now()
			if err := uploader.Upload(ctx, saveDir(cfg, c, domain)); err != nil {
				return fmt.Errorf("post %s documents: %w", domain, err)
			}
			logger.Info("post finished",
				zap.String("domain", domain),
				zap.String("core", name),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search API",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			problems, err := solr.NewCore(cfg.Solr.ProblemCore, cfg.Solr.Host)
			if err != nil {
				return err
			}
			users, err := solr.NewCore(cfg.Solr.UserCore, cfg.Solr.Host)
			if err != nil {
				return err
			}

			searchCache, err := cache.New(cfg.Cache)
			if err != nil {
				return err
			}
			defer searchCache.Close()

			server := api.NewServer(problems, users, searchCache, logger)

			addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
			srv := &http.Server{
				Addr:         addr,
				Handler:      server.Routes(),
				ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

			go func() {
				logger.Info("starting HTTP server", zap.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("HTTP server error", zap.Error(err))
				}
			}()

			<-quit
			logger.Info("received shutdown signal")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("error during shutdown", zap.Error(err))
			}
			logger.Info("server stopped gracefully")
			return nil
		},
	}
}
