package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.StorageDriver)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default http addr: %q", cfg.HTTPAddr)
	}
	if cfg.ScoringVersion != "current" {
		t.Fatalf("unexpected default scoring version: %q", cfg.ScoringVersion)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.ResyncInterval != 6*time.Hour {
		t.Fatalf("unexpected default resync interval: %s", cfg.ResyncInterval)
	}
	if cfg.ResyncWorkers != 8 {
		t.Fatalf("unexpected default resync workers: %d", cfg.ResyncWorkers)
	}
	if cfg.PollEnabled {
		t.Fatalf("expected polling disabled by default")
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mysql")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("postgres requires DB_URL", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StoragePostgres)
		t.Setenv("DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
		}
	})

	t.Run("postgres with DB_URL", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "Postgres")
		t.Setenv("DB_URL", "postgres://localhost:5432/standings?sslmode=disable")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.StorageDriver != StoragePostgres {
			t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
		}
	})
}

func TestLoad_ScoringVersionValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("legacy accepted", func(t *testing.T) {
		t.Setenv("SCORING_VERSION", "LEGACY")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.ScoringVersion != "legacy" {
			t.Fatalf("unexpected scoring version: %q", cfg.ScoringVersion)
		}
	})

	t.Run("unknown rejected", func(t *testing.T) {
		t.Setenv("SCORING_VERSION", "monthly")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown SCORING_VERSION")
		}
	})
}

func TestLoad_ResyncWorkersMustBePositive(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RESYNC_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for RESYNC_WORKERS=0")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_WhatsAppRequiresTargetWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WHATSAPP_ENABLED", "true")
	t.Setenv("WHATSAPP_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when WHATSAPP_ENABLED=true without WHATSAPP_BASE_URL")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "standings-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "standings-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://league.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://league.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_DurationParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "soon")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid POLL_INTERVAL")
		}
	})

	t.Run("non-positive value", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "-5m")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-positive POLL_INTERVAL")
		}
	})

	t.Run("valid value", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "3m")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PollInterval != 3*time.Minute {
			t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
		}
	})
}
