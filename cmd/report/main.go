package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	sonic "github.com/bytedance/sonic"
	"github.com/j-evans1/CPR/internal/app"
	"github.com/j-evans1/CPR/internal/config"
	"github.com/j-evans1/CPR/internal/domain/audit"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays a clean JSON document.
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	services, err := app.NewServices(cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build services: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, services, os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	if err := writeJSON(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, services app.Services, command string, args []string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "stats":
		return services.PlayerStats.List(ctx)
	case "teams":
		return services.Fantasy.ListTeams(ctx)
	case "matches":
		team := ""
		if len(args) > 0 {
			team = args[0]
		}
		return services.Matches.List(ctx, team)
	case "summary":
		return services.Matches.Summary(ctx)
	case "payments":
		return services.Payments.ListLedgers(ctx)
	case "fines":
		if len(args) == 0 {
			return services.Fines.ListPlayerFines(ctx)
		}
		maxAmount, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid max amount %q: %w", args[0], err)
		}
		return services.Fines.Reports(ctx, maxAmount)
	case "snapshot":
		return services.Snapshot.Build(ctx)
	case "validate":
		report, err := services.Validation.Run(ctx)
		if err != nil {
			return nil, err
		}
		return newValidationOutput(report), nil
	case "check":
		// Loads every source once so layout problems surface before deploys.
		return services.CacheWarm.Warm(ctx, usecase.CacheWarmInput{Sources: args})
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

// validationOutput leads with the counts so a failing audit is visible
// without scrolling through every check.
type validationOutput struct {
	TotalChecks  int
	PassedChecks int
	PassRate     float64
	Mismatches   []audit.Check
	Checks       []audit.Check
}

func newValidationOutput(r audit.Report) validationOutput {
	return validationOutput{
		TotalChecks:  r.Total(),
		PassedChecks: r.Passed,
		PassRate:     r.PassRate(),
		Mismatches:   r.Mismatches,
		Checks:       r.Checks,
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := sonic.ConfigStd.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: report <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  stats              season stat lines ranked by fantasy points")
	fmt.Fprintln(w, "  teams              fantasy teams ranked by roster points")
	fmt.Fprintln(w, "  matches [team]     matches, most recent first")
	fmt.Fprintln(w, "  summary            win/draw/loss record per team")
	fmt.Fprintln(w, "  payments           player ledgers, biggest balance first")
	fmt.Fprintln(w, "  fines [max]        fines per player, with a summary of fines <= max")
	fmt.Fprintln(w, "  snapshot           every collection at once")
	fmt.Fprintln(w, "  validate           compare computed totals with the Player Data sheet")
	fmt.Fprintln(w, "  check [source...]  load sources and report row counts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "configuration is read from the same environment variables as the api;")
	fmt.Fprintln(w, "set SHEETS_MODE=memory to run against the bundled sample sheets.")
}
