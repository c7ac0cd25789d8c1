package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/gmalickovski/vibraweb/internal/handlers"
	"github.com/gmalickovski/vibraweb/internal/narrative"
	"github.com/gmalickovski/vibraweb/internal/platform/config"
	"github.com/gmalickovski/vibraweb/internal/platform/observability"
	"github.com/gmalickovski/vibraweb/internal/platform/secrets"
	"github.com/gmalickovski/vibraweb/internal/services"
)

const (
	serviceName           = "vibraweb-api"
	instrumentationName   = "github.com/gmalickovski/vibraweb"
	secretHealthReference = "secret://system/healthz?version=latest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	startedAt := time.Now().UTC()

	envValues, err := config.EnvironmentValues()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read environment values: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(observability.LoggerOptions{
		Level:       envValues["LOG_LEVEL"],
		Service:     serviceName,
		Version:     envValues["API_BUILD_VERSION"],
		Environment: envValues["API_SECURITY_ENVIRONMENT"],
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
		config.WithRequiredSecrets(requiredSecretNames(envValues)...),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := services.BuildInfo{
		Version:     cfg.Build.Version,
		CommitSHA:   cfg.Build.CommitSHA,
		Environment: cfg.Security.Environment,
		StartedAt:   startedAt,
	}

	source, err := newNarrativeSource(cfg.Narrative, logger.Named("narrative"))
	if err != nil {
		logger.Fatal("failed to initialise narrative source", zap.Error(err))
	}

	tracer := otel.Tracer(instrumentationName)
	meter := otel.Meter(instrumentationName)
	eventLogger := observability.EventLogger(logger.Named("services"))

	analysisService, err := services.NewAnalysisService(services.AnalysisServiceDeps{
		Clock:  time.Now,
		Logger: eventLogger,
		Tracer: tracer,
		Meter:  meter,
	})
	if err != nil {
		logger.Fatal("failed to initialise analysis service", zap.Error(err))
	}

	var reportService services.ReportService
	if cfg.Features.EnableReports {
		reportService, err = services.NewReportService(services.ReportServiceDeps{
			Analyses:    analysisService,
			Narratives:  source,
			Concurrency: cfg.Narrative.Concurrency,
			Logger:      eventLogger,
			Tracer:      tracer,
			Meter:       meter,
		})
		if err != nil {
			logger.Fatal("failed to initialise report service", zap.Error(err))
		}
	} else {
		logger.Info("report endpoint disabled by feature flag")
	}

	systemService, err := newSystemService(source, fetcher, buildInfo)
	if err != nil {
		logger.Warn("health: system service init failed", zap.Error(err))
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthSystemService(systemService),
	)
	analysisHandlers := handlers.NewAnalysisHandlers(analysisService, reportService,
		handlers.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(cfg.Observability.ProjectID),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithAnalysisRoutes(analysisHandlers.Routes),
		handlers.WithRequestTimeout(cfg.Server.RequestTimeout),
		handlers.WithRateLimit(cfg.RateLimits.DefaultPerMinute, time.Now),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("vibraweb api listening",
			zap.Bool("reports", reportService != nil),
			zap.Bool("remote_narratives", cfg.Narrative.RemoteEnabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		return strings.TrimSpace(env[key])
	}

	project := lookup("API_SECRETS_PROJECT_ID")
	if project == "" {
		project = lookup("API_OBSERVABILITY_PROJECT_ID")
	}
	fallbackPath := lookup("API_SECRETS_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}

	opts := []secrets.Option{
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if project != "" {
		opts = append(opts, secrets.WithProject(project))
	}
	if credentialsFile := lookup("API_SECRETS_CREDENTIALS_FILE"); credentialsFile != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(credentialsFile)))
	}
	return secrets.NewFetcher(ctx, opts...)
}

// requiredSecretNames lists config secrets that must resolve before the server starts.
// The CMS token is only required once a remote CMS is configured.
func requiredSecretNames(env map[string]string) []string {
	if env == nil {
		return nil
	}
	if strings.TrimSpace(env["API_NARRATIVE_BASE_URL"]) == "" {
		return nil
	}
	return []string{"Narrative.AuthToken"}
}

// newNarrativeSource layers the content directory, the optional CMS and the in-memory cache.
// Only CMS answers are cached; the directory fallback sits outside the cache.
func newNarrativeSource(cfg config.NarrativeConfig, logger *zap.Logger) (narrative.Source, error) {
	directory, err := narrative.NewDirectorySource(cfg.ContentDir)
	if err != nil {
		return nil, fmt.Errorf("narrative directory: %w", err)
	}
	if !cfg.RemoteEnabled() {
		return narrative.NewCachedSource(directory, cfg.CacheSize, cfg.CacheTTL), nil
	}

	remote, err := narrative.NewRemoteSource(cfg.BaseURL,
		narrative.WithAuthToken(cfg.AuthToken),
		narrative.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("narrative remote: %w", err)
	}
	cached := narrative.NewCachedSource(remote, cfg.CacheSize, cfg.CacheTTL)
	return narrative.NewFallbackSource(cached, directory, logger), nil
}

func newSystemService(source narrative.Source, fetcher *secrets.Fetcher, build services.BuildInfo) (services.SystemService, error) {
	checks := make([]services.DependencyCheck, 0, 2)
	if source != nil {
		checks = append(checks, services.DependencyCheck{
			Name:    "narratives",
			Timeout: 1500 * time.Millisecond,
			Check:   source.Ping,
		})
	}
	if fetcher != nil {
		checks = append(checks, services.DependencyCheck{
			Name:    "secretManager",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := fetcher.Resolve(ctx, secretHealthReference)
				if err == nil || secrets.IsNotFound(err) {
					return nil
				}
				return err
			},
		})
	}
	if len(checks) == 0 {
		return nil, errors.New("health: no dependency checks configured")
	}
	collector, err := services.NewDependencyHealthCollector(checks)
	if err != nil {
		return nil, err
	}
	return services.NewSystemService(services.SystemServiceDeps{
		Health: collector,
		Clock:  time.Now,
		Build:  build,
	})
}
