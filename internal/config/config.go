package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gvfl/standings-api/internal/platform/logging"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	StorageDriver string
	DBURL         string

	LogLevel           logging.Level
	CORSAllowedOrigins []string
	AdminToken         string

	ScoringVersion string
	CacheTTL       time.Duration
	ResyncInterval time.Duration
	ResyncWorkers  int

	PollEnabled  bool
	PollInterval time.Duration

	FantasyAPIBaseURL               string
	FantasyAPITimeout               time.Duration
	FantasyAPIMaxRetries            int
	FantasyAPICircuitEnabled        bool
	FantasyAPICircuitFailureCount   int
	FantasyAPICircuitOpenTimeout    time.Duration
	FantasyAPICircuitHalfOpenMaxReq int

	WhatsAppEnabled               bool
	WhatsAppBaseURL               string
	WhatsAppAuthToken             string
	WhatsAppChatID                string
	WhatsAppTimeout               time.Duration
	WhatsAppMaxRetries            int
	WhatsAppCircuitEnabled        bool
	WhatsAppCircuitFailureCount   int
	WhatsAppCircuitOpenTimeout    time.Duration
	WhatsAppCircuitHalfOpenMaxReq int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	PprofEnabled bool
	PprofAddr    string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	if storageDriver != StorageMemory && storageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, storageDriver)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storageDriver == StoragePostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	scoringVersion := strings.ToLower(strings.TrimSpace(getEnv("SCORING_VERSION", "current")))
	if scoringVersion != "current" && scoringVersion != "legacy" {
		return Config{}, fmt.Errorf("SCORING_VERSION must be \"current\" or \"legacy\", got %q", scoringVersion)
	}

	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	resyncInterval, err := getEnvAsDuration("RESYNC_INTERVAL", 6*time.Hour)
	if err != nil {
		return Config{}, err
	}
	resyncWorkers, err := getEnvAsInt("RESYNC_WORKERS", 8)
	if err != nil {
		return Config{}, err
	}
	if resyncWorkers < 1 {
		return Config{}, fmt.Errorf("RESYNC_WORKERS must be >= 1")
	}

	pollEnabled, err := getEnvAsBool("POLL_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pollInterval, err := getEnvAsDuration("POLL_INTERVAL", 10*time.Minute)
	if err != nil {
		return Config{}, err
	}

	fantasyTimeout, err := getEnvAsDuration("FANTASY_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	fantasyMaxRetries, err := getEnvAsInt("FANTASY_API_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	if fantasyMaxRetries < 0 {
		return Config{}, fmt.Errorf("FANTASY_API_MAX_RETRIES must be >= 0")
	}
	fantasyCircuitEnabled, err := getEnvAsBool("FANTASY_API_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	fantasyCircuitFailureCount, err := getEnvAsInt("FANTASY_API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	fantasyCircuitOpenTimeout, err := getEnvAsDuration("FANTASY_API_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	fantasyCircuitHalfOpenMaxReq, err := getEnvAsInt("FANTASY_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	whatsAppEnabled, err := getEnvAsBool("WHATSAPP_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	whatsAppBaseURL := strings.TrimSpace(getEnv("WHATSAPP_BASE_URL", ""))
	if whatsAppEnabled && whatsAppBaseURL == "" {
		return Config{}, fmt.Errorf("WHATSAPP_BASE_URL is required when WHATSAPP_ENABLED=true")
	}
	whatsAppChatID := strings.TrimSpace(getEnv("WHATSAPP_CHAT_ID", ""))
	if whatsAppEnabled && whatsAppChatID == "" {
		return Config{}, fmt.Errorf("WHATSAPP_CHAT_ID is required when WHATSAPP_ENABLED=true")
	}
	whatsAppTimeout, err := getEnvAsDuration("WHATSAPP_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	whatsAppMaxRetries, err := getEnvAsInt("WHATSAPP_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	whatsAppCircuitEnabled, err := getEnvAsBool("WHATSAPP_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	whatsAppCircuitFailureCount, err := getEnvAsInt("WHATSAPP_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	whatsAppCircuitOpenTimeout, err := getEnvAsDuration("WHATSAPP_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	whatsAppCircuitHalfOpenMaxReq, err := getEnvAsInt("WHATSAPP_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	serviceName := getEnv("APP_SERVICE_NAME", "standings-api")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		StorageDriver: storageDriver,
		DBURL:         dbURL,

		LogLevel:           parseLogLevel(getEnv("LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminToken:         strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),

		ScoringVersion: scoringVersion,
		CacheTTL:       cacheTTL,
		ResyncInterval: resyncInterval,
		ResyncWorkers:  resyncWorkers,

		PollEnabled:  pollEnabled,
		PollInterval: pollInterval,

		FantasyAPIBaseURL:               strings.TrimSpace(getEnv("FANTASY_API_BASE_URL", "")),
		FantasyAPITimeout:               fantasyTimeout,
		FantasyAPIMaxRetries:            fantasyMaxRetries,
		FantasyAPICircuitEnabled:        fantasyCircuitEnabled,
		FantasyAPICircuitFailureCount:   fantasyCircuitFailureCount,
		FantasyAPICircuitOpenTimeout:    fantasyCircuitOpenTimeout,
		FantasyAPICircuitHalfOpenMaxReq: fantasyCircuitHalfOpenMaxReq,

		WhatsAppEnabled:               whatsAppEnabled,
		WhatsAppBaseURL:               whatsAppBaseURL,
		WhatsAppAuthToken:             strings.TrimSpace(getEnv("WHATSAPP_AUTH_TOKEN", "")),
		WhatsAppChatID:                whatsAppChatID,
		WhatsAppTimeout:               whatsAppTimeout,
		WhatsAppMaxRetries:            whatsAppMaxRetries,
		WhatsAppCircuitEnabled:        whatsAppCircuitEnabled,
		WhatsAppCircuitFailureCount:   whatsAppCircuitFailureCount,
		WhatsAppCircuitOpenTimeout:    whatsAppCircuitOpenTimeout,
		WhatsAppCircuitHalfOpenMaxReq: whatsAppCircuitHalfOpenMaxReq,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,
	}, nil
}

func (c Config) IsProd() bool {
	return c.AppEnv == EnvProd
}

func parseAppEnv(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case EnvDev, "development", "":
		return EnvDev, nil
	case EnvProd, "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("APP_ENV must be dev or prod, got %q", v)
	}
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
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
