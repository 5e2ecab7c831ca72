package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/usecase"
)

type Handler struct {
	playerStatsService *usecase.PlayerStatsService
	fantasyService     *usecase.FantasyLeagueService
	matchService       *usecase.MatchService
	paymentService     *usecase.PaymentService
	fineService        *usecase.FineService
	snapshotService    *usecase.SnapshotService
	validationService  *usecase.ValidationService
	cacheWarmService   *usecase.CacheWarmService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	playerStatsService *usecase.PlayerStatsService,
	fantasyService *usecase.FantasyLeagueService,
	matchService *usecase.MatchService,
	paymentService *usecase.PaymentService,
	fineService *usecase.FineService,
	snapshotService *usecase.SnapshotService,
	validationService *usecase.ValidationService,
	cacheWarmService *usecase.CacheWarmService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerStatsService: playerStatsService,
		fantasyService:     fantasyService,
		matchService:       matchService,
		paymentService:     paymentService,
		fineService:        fineService,
		snapshotService:    snapshotService,
		validationService:  validationService,
		cacheWarmService:   cacheWarmService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStats")
	defer span.End()

	lines, err := h.playerStatsService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list player stats failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerStatDTO, 0, len(lines))
	for _, line := range lines {
		items = append(items, playerStatToDTO(line))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFantasyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFantasyTeams")
	defer span.End()

	teams, err := h.fantasyService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list fantasy teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fantasyTeamDTO, 0, len(teams))
	for _, team := range teams {
		items = append(items, fantasyTeamToDTO(team))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	query := listMatchesQuery{Team: strings.TrimSpace(r.URL.Query().Get("team"))}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.List(ctx, query.Team)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "team", query.Team, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchSummary")
	defer span.End()

	records, err := h.matchService.Summary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "match summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, teamRecordToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPayments")
	defer span.End()

	ledgers, err := h.paymentService.ListLedgers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list payments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerLedgerDTO, 0, len(ledgers))
	for _, l := range ledgers {
		items = append(items, playerLedgerToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// ListFines returns the per-player fines view. With max_amount every player
// also carries the summary of fines at or under that amount.
func (h *Handler) ListFines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFines")
	defer span.End()

	query, err := parseListFinesQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	if query.MaxAmount == nil {
		players, err := h.fineService.ListPlayerFines(ctx)
		if err != nil {
			h.logger.WarnContext(ctx, "list fines failed", "error", err)
			writeError(ctx, w, err)
			return
		}

		items := make([]playerFinesDTO, 0, len(players))
		for _, p := range players {
			items = append(items, playerFinesToDTO(p, nil))
		}
		writeSuccess(ctx, w, http.StatusOK, items)
		return
	}

	reports, err := h.fineService.Reports(ctx, *query.MaxAmount)
	if err != nil {
		h.logger.WarnContext(ctx, "list fine reports failed", "max_amount", *query.MaxAmount, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerFinesDTO, 0, len(reports))
	for _, report := range reports {
		summary := fineSummaryToDTO(report.Regular)
		items = append(items, playerFinesToDTO(report.PlayerFines, &summary))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	snapshot, err := h.snapshotService.Build(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "build dashboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snapshot))
}

// ListValidation audits computed totals against the Player Data sheet.
// Mismatches are data, not errors, so the response is 200 either way.
func (h *Handler) ListValidation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListValidation")
	defer span.End()

	report, err := h.validationService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run validation failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validationReportToDTO(report))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type listMatchesQuery struct {
	Team string `validate:"omitempty,alphanum,max=16"`
}

type listFinesQuery struct {
	MaxAmount *float64 `validate:"omitempty,gt=0"`
}

func parseListFinesQuery(r *http.Request) (listFinesQuery, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("max_amount"))
	if raw == "" {
		return listFinesQuery{}, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return listFinesQuery{}, fmt.Errorf("%w: max_amount must be a number", usecase.ErrInvalidInput)
	}
	return listFinesQuery{MaxAmount: &value}, nil
}
