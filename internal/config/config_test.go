package config

import (
	"testing"
	"time"
)

func loadWith(t *testing.T, env map[string]string) (Config, error) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	for key, value := range env {
		t.Setenv(key, value)
	}
	return Load()
}

func TestLoad_RejectsBrokenSettings(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown app env", env: map[string]string{"APP_ENV": "invalid"}},
		{name: "uptrace enabled without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "betterstack enabled without endpoint", env: map[string]string{"BETTERSTACK_ENABLED": "true", "BETTERSTACK_ENDPOINT": ""}},
		{name: "pyroscope enabled without server", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
		{name: "db flag not a bool", env: map[string]string{"DB_ENABLED": "not-bool"}},
		{name: "prepared binary flag not a bool", env: map[string]string{"DB_DISABLE_PREPARED_BINARY_RESULT": "not-bool"}},
		{name: "cache ttl unparseable", env: map[string]string{"CACHE_TTL": "bad"}},
		{name: "cache ttl zero", env: map[string]string{"CACHE_TTL": "0s"}},
		{name: "negative provider retries", env: map[string]string{"SPORTMONKS_MAX_RETRIES": "-1"}},
		{name: "provider enabled without token", env: map[string]string{"SPORTMONKS_ENABLED": "true", "SPORTMONKS_TOKEN": "", "SPORTMONKS_SEASON_ID_MAP": ""}},
		{name: "provider enabled without job token", env: map[string]string{
			"SPORTMONKS_ENABLED":       "true",
			"SPORTMONKS_TOKEN":         "token",
			"SPORTMONKS_SEASON_ID_MAP": "eng-premier-league-2025-26:25583",
			"INTERNAL_JOB_TOKEN":       "",
		}},
		{name: "season map item without id", env: map[string]string{"SPORTMONKS_SEASON_ID_MAP": "missing-number"}},
		{name: "season map id not positive", env: map[string]string{"SPORTMONKS_SEASON_ID_MAP": "epl:0"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := loadWith(t, tc.env); err == nil {
				t.Fatalf("expected Load to fail")
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, nil)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ServiceName != "prediction-league-api" {
		t.Fatalf("ServiceName = %q", cfg.ServiceName)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("swagger must default on outside prod")
	}
	if cfg.DBEnabled {
		t.Fatalf("db must default off")
	}
	if !cfg.DBDisablePreparedBinary {
		t.Fatalf("prepared binary results must default off")
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Fatalf("cache defaults: enabled=%v ttl=%s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORS default = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SportMonksEnabled {
		t.Fatalf("provider must default off")
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("PprofAddr = %q", cfg.PprofAddr)
	}
}

func TestLoad_ProdDisablesSwaggerByDefault(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{"APP_ENV": EnvProd})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("swagger must default off in prod")
	}
}

func TestLoad_BetterStackSection(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"BETTERSTACK_ENABLED":   "true",
		"BETTERSTACK_ENDPOINT":  "s1765114.eu-fsn-3.betterstackdata.com",
		"BETTERSTACK_TOKEN":     "token-123",
		"BETTERSTACK_TIMEOUT":   "4s",
		"BETTERSTACK_MIN_LEVEL": "warn",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if !cfg.BetterStackEnabled {
		t.Fatalf("expected shipping enabled")
	}
	if cfg.BetterStackEndpoint != "s1765114.eu-fsn-3.betterstackdata.com" {
		t.Fatalf("endpoint = %q", cfg.BetterStackEndpoint)
	}
	if cfg.BetterStackToken != "token-123" {
		t.Fatalf("token = %q", cfg.BetterStackToken)
	}
	if cfg.BetterStackTimeout != 4*time.Second {
		t.Fatalf("timeout = %s", cfg.BetterStackTimeout)
	}
	if cfg.BetterStackMinLevel.String() != "warn" {
		t.Fatalf("min level = %s", cfg.BetterStackMinLevel)
	}
}

func TestLoad_PyroscopeAppNameFallsBackToServiceName(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"APP_SERVICE_NAME":         "prediction-league-api-test",
		"PYROSCOPE_ENABLED":        "true",
		"PYROSCOPE_SERVER_ADDRESS": "http://localhost:4040",
		"PYROSCOPE_APP_NAME":       "",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "prediction-league-api-test" {
		t.Fatalf("app name = %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_PprofAddrSurvivesBlankEnv(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"PPROF_ENABLED": "true",
		"PPROF_ADDR":    "  ",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("pprof addr = %q", cfg.PprofAddr)
	}
}

func TestLoad_CORSListParsing(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"CORS_ALLOWED_ORIGINS": " https://a.example.com, http://localhost:5173 ",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := []string{"https://a.example.com", "http://localhost:5173"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("origins = %v", cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("origin[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
}

func TestLoad_SportMonksSection(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		"SPORTMONKS_ENABLED":       "true",
		"SPORTMONKS_TOKEN":         "token",
		"SPORTMONKS_SEASON_ID_MAP": "eng-premier-league-2025-26:25583,esp-la-liga-2025-26:25659",
		"INTERNAL_JOB_TOKEN":       "internal-job-token",
		"SPORTMONKS_TIMEOUT":       "15s",
		"SPORTMONKS_MAX_RETRIES":   "2",
	})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if !cfg.SportMonksEnabled {
		t.Fatalf("expected provider enabled")
	}
	if cfg.SportMonksSeasonIDMap["eng-premier-league-2025-26"] != 25583 {
		t.Fatalf("season map = %v", cfg.SportMonksSeasonIDMap)
	}
	if cfg.SportMonksSeasonIDMap["esp-la-liga-2025-26"] != 25659 {
		t.Fatalf("season map = %v", cfg.SportMonksSeasonIDMap)
	}
	if cfg.SportMonksTimeout != 15*time.Second {
		t.Fatalf("timeout = %s", cfg.SportMonksTimeout)
	}
	if cfg.SportMonksMaxRetries != 2 {
		t.Fatalf("max retries = %d", cfg.SportMonksMaxRetries)
	}
	if cfg.InternalJobToken != "internal-job-token" {
		t.Fatalf("job token = %q", cfg.InternalJobToken)
	}
}
