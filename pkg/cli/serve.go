package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/cli/config"
	httpctrl "github.com/barriolab/vecino/pkg/controller/http"
	"github.com/barriolab/vecino/pkg/controller/telegram"
	"github.com/barriolab/vecino/pkg/service/transcribe"
	"github.com/barriolab/vecino/pkg/service/worker"
	"github.com/barriolab/vecino/pkg/usecase"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var sweepInterval time.Duration
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var llmCfg config.LLM
	var vectorCfg config.Vector
	var telegramCfg config.Telegram
	var engineCfg config.Engine

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("VECINO_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval between cache sweeps and rate limiter pruning",
			Value:       time.Hour,
			Sources:     cli.EnvVars("VECINO_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, vectorCfg.Flags()...)
	flags = append(flags, telegramCfg.Flags()...)
	flags = append(flags, engineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the chatbot engine",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			store, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}
			logger.Info("Catalog loaded", "records", store.Len())

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := engineCfg.Options()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithLLMClient(llmClient))
				logger.LogAttrs(ctx, slog.LevelInfo, "LLM client enabled", llmCfg.LogAttrs()...)
			} else {
				logger.Info("OpenAI API key not configured, responses are plain candidate cards")
			}

			vectorIndex, err := vectorCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure vector index")
			}
			if vectorIndex != nil {
				defer func() {
					if err := vectorIndex.Close(); err != nil {
						logger.Error("failed to close vector index", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithVectorIndex(vectorIndex))
				logger.Info("Vector index enabled")
			} else {
				logger.Info("Vector DSN not configured, using lexical retrieval")
			}

			var bot *telegram.Bot
			if telegramCfg.IsConfigured() {
				var botOpts []telegram.Option
				if llmCfg.APIKey() != "" {
					botOpts = append(botOpts,
						telegram.WithTranscriber(transcribe.NewWhisper(llmCfg.APIKey())))
				}
				bot, err = telegram.New(telegramCfg.Token(), botOpts...)
				if err != nil {
					return goerr.Wrap(err, "failed to create telegram bot")
				}
				ucOpts = append(ucOpts, usecase.WithResponder(bot))
			} else {
				logger.Info("Telegram token not configured, bot transport disabled")
			}

			uc, err := usecase.New(repo, store, ucOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to build use cases")
			}
			defer uc.Close()

			sweeper := worker.NewMaintenanceWorker(sweepInterval,
				[]worker.Sweeper{uc.ResponseCacheSweeper()},
				[]worker.Pruner{uc.Limiter()},
			)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start maintenance worker")
			}

			botCtx, cancelBot := context.WithCancel(ctx)
			defer cancelBot()
			if bot != nil {
				go func() {
					if err := bot.Run(botCtx, uc); err != nil && botCtx.Err() == nil {
						logger.Error("telegram bot stopped", "error", err.Error())
					}
				}()
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)

				cancelBot()
				sweeper.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logger.Info("Server shutdown completed")
				return nil
			}
		},
	}
}
