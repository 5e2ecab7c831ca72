package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	SheetsModeRemote = "remote"
	SheetsModeMemory = "memory"
)

// sheetURLEnv maps each source to the variable holding its export URL.
var sheetURLEnv = map[sheet.Source]string{
	sheet.SourceMatchDetails:  "SHEET_URL_MATCH_DETAILS",
	sheet.SourcePlayerData:    "SHEET_URL_PLAYER_DATA",
	sheet.SourceTeamSelection: "SHEET_URL_TEAM_SELECTION",
	sheet.SourceBankStatement: "SHEET_URL_BANK_STATEMENT",
	sheet.SourceFines:         "SHEET_URL_FINES",
}

// Config stores runtime configuration for the service. The env tag names the
// variable a field is read from and is used in validation errors.
type Config struct {
	AppEnv             string        `env:"APP_ENV" validate:"oneof=dev stage prod"`
	ServiceName        string        `env:"APP_SERVICE_NAME" validate:"required"`
	ServiceVersion     string        `env:"APP_SERVICE_VERSION" validate:"required"`
	HTTPAddr           string        `env:"APP_HTTP_ADDR" validate:"required"`
	ReadTimeout        time.Duration `env:"APP_READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout       time.Duration `env:"APP_WRITE_TIMEOUT" validate:"gt=0"`
	LogLevel           logging.Level `env:"APP_LOG_LEVEL"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" validate:"min=1"`

	SheetsMode         string                  `env:"SHEETS_MODE" validate:"oneof=remote memory"`
	SheetURLs          map[sheet.Source]string `env:"SHEET_URL_*" validate:"dive,omitempty,url"`
	SheetsFetchTimeout time.Duration           `env:"SHEETS_FETCH_TIMEOUT" validate:"gt=0"`
	SheetsMaxBodyBytes int                     `env:"SHEETS_MAX_BODY_BYTES" validate:"gt=0"`
	SheetsBreaker      bool                    `env:"SHEETS_BREAKER_ENABLED"`
	SheetsBreakerFails int                     `env:"SHEETS_BREAKER_FAILURES" validate:"gte=1"`
	SheetsBreakerOpen  time.Duration           `env:"SHEETS_BREAKER_OPEN_TIMEOUT" validate:"gt=0"`
	CacheEnabled       bool                    `env:"CACHE_ENABLED"`
	CacheTTL           time.Duration           `env:"CACHE_TTL" validate:"gt=0"`

	MatchColumns       sheet.MatchColumns `env:"MATCH_COLUMN_MAP"`
	BankColumns        sheet.BankColumns  `env:"BANK_COLUMN_MAP"`
	FineColumns        sheet.FineColumns  `env:"FINES_COLUMN_MAP"`
	SeasonFee          float64            `env:"SEASON_FEE" validate:"gte=0"`
	SeasonFeeThreshold int                `env:"SEASON_FEE_THRESHOLD" validate:"gte=0"`
	PaymentStartDate   cell.DateKey       `env:"PAYMENT_START_DATE"`
	RegularFineMax     float64            `env:"FINES_REGULAR_MAX" validate:"gt=0"`
	TeamTokens         []string           `env:"TEAM_TOKENS" validate:"min=1,dive,required"`

	InternalJobToken string `env:"INTERNAL_JOB_TOKEN"`
	WarmWorkers      int    `env:"WARM_WORKERS" validate:"gte=1,lte=64"`

	PprofEnabled               bool          `env:"PPROF_ENABLED"`
	PprofAddr                  string        `env:"PPROF_ADDR" validate:"required_if=PprofEnabled true"`
	UptraceEnabled             bool          `env:"UPTRACE_ENABLED"`
	UptraceDSN                 string        `env:"UPTRACE_DSN" validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled         bool          `env:"UPTRACE_LOGS_ENABLED"`
	PyroscopeEnabled           bool          `env:"PYROSCOPE_ENABLED"`
	PyroscopeServerAddress     string        `env:"PYROSCOPE_SERVER_ADDRESS" validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName           string        `env:"PYROSCOPE_APP_NAME" validate:"required"`
	PyroscopeAuthToken         string        `env:"PYROSCOPE_AUTH_TOKEN"`
	PyroscopeBasicAuthUser     string        `env:"PYROSCOPE_BASIC_AUTH_USER"`
	PyroscopeBasicAuthPassword string        `env:"PYROSCOPE_BASIC_AUTH_PASSWORD"`
	PyroscopeUploadRate        time.Duration `env:"PYROSCOPE_UPLOAD_RATE" validate:"gt=0"`
	MetricsEnabled             bool          `env:"METRICS_ENABLED"`
}

func Load() (Config, error) {
	cfg := Config{
		AppEnv:             strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDev))),
		ServiceName:        strings.TrimSpace(getEnv("APP_SERVICE_NAME", "cpr-fantasy-api")),
		ServiceVersion:     strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:           strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SheetsMode:         strings.ToLower(strings.TrimSpace(getEnv("SHEETS_MODE", SheetsModeRemote))),
		SheetURLs:          make(map[sheet.Source]string, len(sheetURLEnv)),
		TeamTokens:         splitCSV(getEnv("TEAM_TOKENS", "CPRA,CPR")),
		InternalJobToken:   strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),

		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	for source, key := range sheetURLEnv {
		if url := strings.TrimSpace(getEnv(key, "")); url != "" {
			cfg.SheetURLs[source] = url
		}
	}

	level, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	bools := []struct {
		key      string
		fallback string
		target   *bool
	}{
		{"CACHE_ENABLED", "true", &cfg.CacheEnabled},
		{"SHEETS_BREAKER_ENABLED", "true", &cfg.SheetsBreaker},
		{"PPROF_ENABLED", "false", &cfg.PprofEnabled},
		{"UPTRACE_ENABLED", "false", &cfg.UptraceEnabled},
		{"UPTRACE_LOGS_ENABLED", "true", &cfg.UptraceLogsEnabled},
		{"PYROSCOPE_ENABLED", "false", &cfg.PyroscopeEnabled},
		{"METRICS_ENABLED", "true", &cfg.MetricsEnabled},
	}
	for _, item := range bools {
		value, err := strconv.ParseBool(getEnv(item.key, item.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.target = value
	}

	durations := []struct {
		key      string
		fallback string
		target   *time.Duration
	}{
		{"APP_READ_TIMEOUT", "10s", &cfg.ReadTimeout},
		{"APP_WRITE_TIMEOUT", "15s", &cfg.WriteTimeout},
		{"SHEETS_FETCH_TIMEOUT", "20s", &cfg.SheetsFetchTimeout},
		{"CACHE_TTL", "60s", &cfg.CacheTTL},
		{"SHEETS_BREAKER_OPEN_TIMEOUT", "15s", &cfg.SheetsBreakerOpen},
		{"PYROSCOPE_UPLOAD_RATE", "15s", &cfg.PyroscopeUploadRate},
	}
	for _, item := range durations {
		value, err := time.ParseDuration(getEnv(item.key, item.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.target = value
	}

	ints := []struct {
		key      string
		fallback int
		target   *int
	}{
		{"SHEETS_MAX_BODY_BYTES", 8 << 20, &cfg.SheetsMaxBodyBytes},
		{"SHEETS_BREAKER_FAILURES", 5, &cfg.SheetsBreakerFails},
		{"SEASON_FEE_THRESHOLD", 5, &cfg.SeasonFeeThreshold},
		{"WARM_WORKERS", 4, &cfg.WarmWorkers},
	}
	for _, item := range ints {
		value, err := getEnvAsInt(item.key, item.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.target = value
	}

	if cfg.SeasonFee, err = getEnvAsFloat("SEASON_FEE", 30); err != nil {
		return Config{}, fmt.Errorf("parse SEASON_FEE: %w", err)
	}
	if cfg.RegularFineMax, err = getEnvAsFloat("FINES_REGULAR_MAX", 5); err != nil {
		return Config{}, fmt.Errorf("parse FINES_REGULAR_MAX: %w", err)
	}

	rawStart := getEnv("PAYMENT_START_DATE", "01/08/2025")
	cfg.PaymentStartDate = cell.ParseDateDMY(rawStart)
	if !cfg.PaymentStartDate.Valid() {
		return Config{}, fmt.Errorf("invalid PAYMENT_START_DATE %q: expected DD/MM/YYYY", rawStart)
	}

	if cfg.MatchColumns, err = loadColumns("MATCH_COLUMN_MAP", sheet.MatchColumnsFromMap); err != nil {
		return Config{}, err
	}
	if cfg.BankColumns, err = loadColumns("BANK_COLUMN_MAP", sheet.BankColumnsFromMap); err != nil {
		return Config{}, err
	}
	if cfg.FineColumns, err = loadColumns("FINES_COLUMN_MAP", sheet.FineColumnsFromMap); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	if cfg.SheetsMode == SheetsModeRemote {
		for _, source := range sheet.AllSources() {
			if cfg.SheetURLs[source] == "" {
				return Config{}, fmt.Errorf("%s is required when SHEETS_MODE=%s", sheetURLEnv[source], SheetsModeRemote)
			}
		}
	}

	return cfg, nil
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

func validate(cfg Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	first := fieldErrs[0]
	if first.Param() != "" {
		return fmt.Errorf("invalid %s %v: must satisfy %s=%s", first.Field(), first.Value(), first.Tag(), first.Param())
	}
	return fmt.Errorf("invalid %s %v: must satisfy %s", first.Field(), first.Value(), first.Tag())
}

func loadColumns[T any](key string, build func(map[string]int) (T, error)) (T, error) {
	var zero T
	raw, err := parseColumnMap(getEnv(key, ""))
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", key, err)
	}
	cols, err := build(raw)
	if err != nil {
		return zero, fmt.Errorf("parse %s: %w", key, err)
	}
	return cols, nil
}

// parseColumnMap reads "name:index,name:index". Omitted names keep their
// default positions.
func parseColumnMap(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected column:index", item)
		}

		key := strings.ToLower(strings.TrimSpace(segments[0]))
		if key == "" {
			return nil, fmt.Errorf("empty column name in item %q", item)
		}
		value, err := strconv.Atoi(strings.TrimSpace(segments[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid index in item %q: %w", item, err)
		}

		out[key] = value
	}
	return out, nil
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

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.ParseFloat(value, 64)
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
