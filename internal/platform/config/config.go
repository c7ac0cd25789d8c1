package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultEnvFile             = ".env"
	defaultPort                = "8080"
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 120 * time.Second
	defaultRequestTimeout      = 20 * time.Second
	defaultMaxBodyBytes        = 16 * 1024
	defaultRateLimitDefault    = 120
	defaultSecurityEnvironment = "local"
	defaultContentDir          = "content/narratives"
	defaultNarrativeTimeout    = 5 * time.Second
	defaultNarrativeCacheTTL   = 10 * time.Minute
	defaultNarrativeCacheSize  = 512
	defaultNarrativeWorkers    = 8
	defaultSecretsFallbackFile = ".secrets.local"
	defaultBuildVersion        = "dev"
	defaultBuildCommit         = "unknown"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server        ServerConfig
	Observability ObservabilityConfig
	Narrative     NarrativeConfig
	RateLimits    RateLimitConfig
	Features      FeatureFlags
	Security      SecurityConfig
	Secrets       SecretsConfig
	Build         BuildConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// ObservabilityConfig controls trace correlation with Cloud Logging.
type ObservabilityConfig struct {
	ProjectID string
	LogLevel  string
}

// NarrativeConfig points the report builder at its content.
type NarrativeConfig struct {
	ContentDir  string
	BaseURL     string
	AuthToken   string
	Timeout     time.Duration
	CacheTTL    time.Duration
	CacheSize   int
	Concurrency int
}

// RemoteEnabled reports whether a remote CMS is configured in front of the content directory.
func (c NarrativeConfig) RemoteEnabled() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// RateLimitConfig controls request throttling.
type RateLimitConfig struct {
	DefaultPerMinute int
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableReports bool
}

// SecurityConfig describes the deployment environment.
type SecurityConfig struct {
	Environment string
}

// SecretsConfig configures where secret:// references are resolved.
type SecretsConfig struct {
	ProjectID    string
	FallbackFile string
}

// BuildConfig carries release metadata reported by health endpoints.
type BuildConfig struct {
	Version   string
	CommitSHA string
}

// SecretResolver resolves references to external secrets (e.g. Secret Manager URIs).
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// Load assembles the application configuration by combining defaults, .env overrides,
// environment variables, and optional secret manager lookups.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := newLoaderOptions(opts...)
	if options.secret == nil {
		options.secret = SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
			return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
		})
	}

	lookup, err := options.lookup()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:           stringWithDefault(lookup, "API_SERVER_PORT", defaultPort),
			ReadTimeout:    durationWithDefault(lookup, "API_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:   durationWithDefault(lookup, "API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:    durationWithDefault(lookup, "API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			RequestTimeout: durationWithDefault(lookup, "API_SERVER_REQUEST_TIMEOUT", defaultRequestTimeout),
			MaxBodyBytes:   int64(intWithDefault(lookup, "API_SERVER_MAX_BODY_BYTES", defaultMaxBodyBytes)),
		},
		Observability: ObservabilityConfig{
			ProjectID: stringWithDefault(lookup, "API_OBSERVABILITY_PROJECT_ID", ""),
			LogLevel:  strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", "")),
		},
		Narrative: NarrativeConfig{
			ContentDir:  stringWithDefault(lookup, "API_NARRATIVE_CONTENT_DIR", defaultContentDir),
			BaseURL:     strings.TrimRight(stringWithDefault(lookup, "API_NARRATIVE_BASE_URL", ""), "/"),
			AuthToken:   stringWithDefault(lookup, "API_NARRATIVE_AUTH_TOKEN", ""),
			Timeout:     durationWithDefault(lookup, "API_NARRATIVE_TIMEOUT", defaultNarrativeTimeout),
			CacheTTL:    durationWithDefault(lookup, "API_NARRATIVE_CACHE_TTL", defaultNarrativeCacheTTL),
			CacheSize:   intWithDefault(lookup, "API_NARRATIVE_CACHE_SIZE", defaultNarrativeCacheSize),
			Concurrency: intWithDefault(lookup, "API_NARRATIVE_CONCURRENCY", defaultNarrativeWorkers),
		},
		RateLimits: RateLimitConfig{
			DefaultPerMinute: intWithDefault(lookup, "API_RATELIMIT_DEFAULT_PER_MIN", defaultRateLimitDefault),
		},
		Features: FeatureFlags{
			EnableReports: boolWithDefault(lookup, "API_FEATURE_REPORTS", true),
		},
		Security: SecurityConfig{
			Environment: strings.ToLower(stringWithDefault(lookup, "API_SECURITY_ENVIRONMENT", defaultSecurityEnvironment)),
		},
		Secrets: SecretsConfig{
			ProjectID:    stringWithDefault(lookup, "API_SECRETS_PROJECT_ID", ""),
			FallbackFile: stringWithDefault(lookup, "API_SECRETS_FALLBACK_FILE", defaultSecretsFallbackFile),
		},
		Build: BuildConfig{
			Version:   stringWithDefault(lookup, "API_BUILD_VERSION", defaultBuildVersion),
			CommitSHA: stringWithDefault(lookup, "API_BUILD_COMMIT_SHA", defaultBuildCommit),
		},
	}

	// Secret Manager project falls back to the observability project.
	if cfg.Secrets.ProjectID == "" {
		cfg.Secrets.ProjectID = cfg.Observability.ProjectID
	}

	resolvedSecrets := make(map[string]string)
	secretFields := []struct {
		name  string
		field *string
	}{
		{"Narrative.AuthToken", &cfg.Narrative.AuthToken},
	}
	for _, target := range secretFields {
		resolved, err := resolveSecret(ctx, *target.field, options.secret)
		if err != nil {
			return Config{}, err
		}
		*target.field = resolved
		resolvedSecrets[target.name] = strings.TrimSpace(resolved)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	if missing := findMissingSecrets(options.requiredSecrets, resolvedSecrets); missing != nil {
		if options.panicOnMissingSecrets {
			fmt.Fprintf(os.Stderr, "config: %s\n", missing.Error())
			panic(missing)
		}
		return Config{}, missing
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var invalid []string

	if strings.TrimSpace(cfg.Server.Port) == "" {
		invalid = append(invalid, "Server.Port")
	}
	if cfg.Server.RequestTimeout <= 0 {
		invalid = append(invalid, "Server.RequestTimeout")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		invalid = append(invalid, "Server.MaxBodyBytes")
	}
	if strings.TrimSpace(cfg.Narrative.ContentDir) == "" && !cfg.Narrative.RemoteEnabled() {
		invalid = append(invalid, "Narrative.ContentDir")
	}
	if cfg.Narrative.Timeout <= 0 {
		invalid = append(invalid, "Narrative.Timeout")
	}
	if cfg.Narrative.CacheSize <= 0 {
		invalid = append(invalid, "Narrative.CacheSize")
	}
	if cfg.Narrative.Concurrency <= 0 {
		invalid = append(invalid, "Narrative.Concurrency")
	}
	if cfg.RateLimits.DefaultPerMinute < 0 {
		invalid = append(invalid, "RateLimits.DefaultPerMinute")
	}

	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}
