package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/ai/gemini"
	"github.com/spigell/resume-ranker/internal/api"
	"github.com/spigell/resume-ranker/internal/artifacts"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/jobboard"
	applog "github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/secrets"
	"github.com/spigell/resume-ranker/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the job board HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (overrides server.listen)")
	serveCmd.Flags().Bool("ai", false, "enable AI features (overrides ai.enabled)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("ai.enabled", serveCmd.Flags().Lookup("ai"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the resume-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	store, err := openStorage(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	defer store.Close()

	files, err := openArtifacts(ctx, config.Artifacts)
	if err != nil {
		logger.Fatal("opening artifact store", zap.Error(err), zap.String("driver", config.Artifacts.Driver))
	}

	filters := append(jobboard.DefaultFilters(),
		filtering.NewExcludedCandidates(config.Ranking.ExcludeCandidates),
	)

	opts := jobboard.Options{
		AI: ai.Options{
			Timeout:      config.AI.Timeout,
			MaxLogLength: config.AI.Gemini.MaxLogLength,
		},
		RecommendationPool: config.AI.RecommendationPool,
		RankingWorkers:     config.Ranking.Workers,
		Filters:            filters,
	}

	if config.AI.Enabled {
		generator, err := newGenerator(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal(
				"building ai generator",
				zap.Error(err),
				zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key-file' key in the configuration file"),
			)
		}
		opts.Generator = generator
	} else {
		logger.Info("ai features are disabled", zap.String("hint", "set ai.enabled or pass --ai"))
	}

	svc := jobboard.New(store, files, logger, opts)

	server := &http.Server{
		Addr:    config.Server.Listen,
		Handler: api.NewRouter(api.New(svc, logger, config.Server.MaxUploadBytes)),
	}

	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serving http", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", zap.Duration("timeout", config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStorage(ctx context.Context, cfg *StorageConfig, logger *zap.Logger) (storage.Store, error) {
	dsn, err := secrets.Optional(secrets.Source{
		Name:  "storage dsn",
		Value: cfg.DSN,
		File:  cfg.DSNFile,
		Env:   "DATABASE_URL",
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.SeedFile == "" {
		return store, nil
	}

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening seed file: %w", err)
	}
	defer f.Close()

	count, err := storage.Seed(ctx, store, f)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("seeding storage: %w", err)
	}

	logger.Info("seeded storage", zap.String("filename", cfg.SeedFile), zap.Int("documents", count))
	return store, nil
}

func openArtifacts(ctx context.Context, cfg *ArtifactsConfig) (artifacts.Store, error) {
	s3cfg := artifacts.S3Config{
		Bucket:   cfg.S3.Bucket,
		Region:   cfg.S3.Region,
		Endpoint: cfg.S3.Endpoint,
		Prefix:   cfg.S3.Prefix,
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Driver), "s3") {
		var err error
		s3cfg.AccessKey, err = secrets.Optional(secrets.Source{
			Name:  "s3 access key",
			Value: cfg.S3.AccessKey,
			File:  cfg.S3.AccessKeyFile,
			Env:   "AWS_ACCESS_KEY_ID",
		})
		if err != nil {
			return nil, err
		}

		s3cfg.SecretKey, err = secrets.Optional(secrets.Source{
			Name:  "s3 secret key",
			Value: cfg.S3.SecretKey,
			File:  cfg.S3.SecretKeyFile,
			Env:   "AWS_SECRET_ACCESS_KEY",
		})
		if err != nil {
			return nil, err
		}
	}

	return artifacts.Open(ctx, artifacts.Config{
		Driver: cfg.Driver,
		Dir:    cfg.Dir,
		S3:     s3cfg,
	})
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	genLogger := applog.WithCommonFields(logger, gemini.ProviderName, cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
}
