package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchbook-app/matchbook/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                          string
	ServiceName                     string
	ServiceVersion                  string
	HTTPAddr                        string
	DBURL                           string
	DBDisablePreparedBinary         bool
	CORSAllowedOrigins              []string
	ReadTimeout                     time.Duration
	WriteTimeout                    time.Duration
	PprofEnabled                    bool
	PprofAddr                       string
	GatekeeperBaseURL               string
	GatekeeperIntrospectPath        string
	GatekeeperTimeout               time.Duration
	GatekeeperCacheTTL              time.Duration
	GatekeeperCircuitEnabled        bool
	GatekeeperCircuitFailureCount   int
	GatekeeperCircuitOpenTimeout    time.Duration
	GatekeeperCircuitHalfOpenMaxReq int
	WebhookEnabled                  bool
	WebhookEndpointURL              string
	WebhookSecret                   string
	WebhookTimeout                  time.Duration
	WebhookMaxRetries               int
	WebhookWorkers                  int
	WebhookCircuitEnabled           bool
	WebhookCircuitFailureCount      int
	WebhookCircuitOpenTimeout       time.Duration
	WebhookCircuitHalfOpenMaxReq    int
	UptraceEnabled                  bool
	UptraceDSN                      string
	PyroscopeEnabled                bool
	PyroscopeServerAddress          string
	PyroscopeAppName                string
	PyroscopeAuthToken              string
	PyroscopeBasicAuthUser          string
	PyroscopeBasicAuthPassword      string
	PyroscopeUploadRate             time.Duration
	LogLevel                        logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	webhookEnabled, err := strconv.ParseBool(getEnv("WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_ENABLED: %w", err)
	}
	webhookEndpointURL := strings.TrimSpace(getEnv("WEBHOOK_ENDPOINT_URL", ""))
	if webhookEnabled && webhookEndpointURL == "" {
		return Config{}, fmt.Errorf("WEBHOOK_ENDPOINT_URL is required when WEBHOOK_ENABLED=true")
	}
	webhookTimeout, err := time.ParseDuration(getEnv("WEBHOOK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_TIMEOUT: %w", err)
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_TIMEOUT must be > 0")
	}
	webhookMaxRetries, err := getEnvAsInt("WEBHOOK_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_MAX_RETRIES: %w", err)
	}
	if webhookMaxRetries < 0 {
		return Config{}, fmt.Errorf("WEBHOOK_MAX_RETRIES must be >= 0")
	}
	webhookWorkers, err := getEnvAsInt("WEBHOOK_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_WORKERS: %w", err)
	}
	if webhookWorkers < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_WORKERS must be >= 1")
	}
	webhookCircuitEnabled, err := strconv.ParseBool(getEnv("WEBHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_ENABLED: %w", err)
	}
	webhookCircuitFailureCount, err := getEnvAsInt("WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if webhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	webhookCircuitOpenTimeout, err := time.ParseDuration(getEnv("WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if webhookCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	webhookCircuitHalfOpenMaxReq, err := getEnvAsInt("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if webhookCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "matchbook-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                 pprofEnabled,
		PprofAddr:                    pprofAddr,
		GatekeeperBaseURL:            getEnv("GATEKEEPER_BASE_URL", "http://localhost:8081"),
		GatekeeperIntrospectPath:     getEnv("GATEKEEPER_INTROSPECT_PATH", "/v1/auth/introspect"),
		WebhookEnabled:               webhookEnabled,
		WebhookEndpointURL:           webhookEndpointURL,
		WebhookSecret:                strings.TrimSpace(getEnv("WEBHOOK_SECRET", "")),
		WebhookTimeout:               webhookTimeout,
		WebhookMaxRetries:            webhookMaxRetries,
		WebhookWorkers:               webhookWorkers,
		WebhookCircuitEnabled:        webhookCircuitEnabled,
		WebhookCircuitFailureCount:   webhookCircuitFailureCount,
		WebhookCircuitOpenTimeout:    webhookCircuitOpenTimeout,
		WebhookCircuitHalfOpenMaxReq: webhookCircuitHalfOpenMaxReq,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	gatekeeperTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_TIMEOUT: %w", err)
	}

	gatekeeperCacheTTL, err := time.ParseDuration(getEnv("GATEKEEPER_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CACHE_TTL: %w", err)
	}
	if gatekeeperCacheTTL < 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CACHE_TTL must be >= 0")
	}

	gatekeeperCircuitEnabled, err := strconv.ParseBool(getEnv("GATEKEEPER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_ENABLED: %w", err)
	}

	gatekeeperCircuitFailureCount, err := getEnvAsInt("GATEKEEPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if gatekeeperCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	gatekeeperCircuitOpenTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if gatekeeperCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	gatekeeperCircuitHalfOpenMaxReq, err := getEnvAsInt("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if gatekeeperCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.GatekeeperTimeout = gatekeeperTimeout
	cfg.GatekeeperCacheTTL = gatekeeperCacheTTL
	cfg.GatekeeperCircuitEnabled = gatekeeperCircuitEnabled
	cfg.GatekeeperCircuitFailureCount = gatekeeperCircuitFailureCount
	cfg.GatekeeperCircuitOpenTimeout = gatekeeperCircuitOpenTimeout
	cfg.GatekeeperCircuitHalfOpenMaxReq = gatekeeperCircuitHalfOpenMaxReq
	cfg.LogLevel = logLevel

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
