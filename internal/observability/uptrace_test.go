package observability

import (
	"context"
	"testing"

	"github.com/j-evans1/CPR/internal/config"
	"github.com/j-evans1/CPR/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "cpr-fantasy-api",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceDisabledReason(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{name: "flag off", cfg: config.Config{UptraceDSN: "https://token@api.uptrace.dev/1"}, want: "UPTRACE_ENABLED=false"},
		{name: "blank dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "  "}, want: "UPTRACE_DSN empty"},
		{name: "configured", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "https://token@api.uptrace.dev/1"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uptraceDisabledReason(tt.cfg); got != tt.want {
				t.Fatalf("uptraceDisabledReason()=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestResourceAttributes_TagSheetBackend(t *testing.T) {
	attrs := resourceAttributes(config.Config{SheetsMode: config.SheetsModeMemory, SheetsBreaker: true})

	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	if got["cpr.sheets.mode"] != "memory" || got["cpr.sheets.breaker"] != "true" {
		t.Fatalf("unexpected resource attributes: %v", got)
	}
}
