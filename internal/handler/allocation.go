package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/allocation"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/queue"
	"github.com/avikern/stand-planner/internal/report"
	"github.com/avikern/stand-planner/internal/repository"
	queue_publisher "github.com/avikern/stand-planner/internal/service"
)

// AllocationHandler runs the allocation engine over the stored schedule
// and dataset, records each run and publishes a completion event.
type AllocationHandler struct {
	Dataset *DatasetHandler
	Flights *repository.FlightRepo
	Runs    *repository.RunRepo
}

func NewAllocationHandler(d *DatasetHandler, f *repository.FlightRepo, r *repository.RunRepo) *AllocationHandler {
	return &AllocationHandler{Dataset: d, Flights: f, Runs: r}
}

type allocationReq struct {
	Maintenance   []model.MaintenanceBlock   `json:"maintenance"`
	TerminalPrefs map[string]string          `json:"terminal_prefs"`
	Settings      *model.OperationalSettings `json:"settings"`
}

type allocationResp struct {
	RunID   uint64                   `json:"run_id"`
	Result  *allocation.Result       `json:"result"`
	Summary report.AllocationSummary `json:"summary"`
}

// Run executes one allocation over the stored flights and dataset.  The
// request may carry maintenance blocks, airline terminal preferences and
// a settings override.
func (h *AllocationHandler) Run(c echo.Context) error {
	var req allocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	flights, err := h.Flights.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	if len(flights) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no flights imported"})
	}
	types, err := h.Dataset.Types.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	stands, err := h.Dataset.Stands.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	rules, err := h.Dataset.Rules.Rules(ctx)
	if err != nil {
		return repoError(c, err)
	}
	settings, err := h.Dataset.Settings.Get(ctx, h.Dataset.defaultSettings())
	if err != nil {
		return repoError(c, err)
	}
	if req.Settings != nil {
		settings = *req.Settings
	}

	in := allocation.Input{
		Flights:       flights,
		Types:         types,
		Stands:        stands,
		Rules:         rules,
		Maintenance:   req.Maintenance,
		TerminalPrefs: req.TerminalPrefs,
		Settings:      settings,
	}
	res, err := allocation.Run(c.Request().Context(), in)
	if err != nil {
		return engineError(c, err)
	}
	summary := report.SummarizeAllocation(res, stands)

	runID, err := h.Runs.Create(ctx, len(flights), len(res.Allocations), len(res.Unallocated), res)
	if err != nil {
		return repoError(c, err)
	}

	// Publish off the request path; a broker outage must not fail the run.
	ev := queue.AllocationCompletedEvent{
		RunID:            runID,
		FlightCount:      len(flights),
		AllocatedCount:   len(res.Allocations),
		UnallocatedCount: len(res.Unallocated),
		AllocationRate:   summary.AllocationRate,
		CompletedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for _, r := range summary.UnallocationReasons {
		ev.Reasons = append(ev.Reasons, string(r))
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		if err := queue_publisher.PublishAllocationCompleted(pubCtx, ev); err != nil {
			log.Printf("allocation: publish completed event failed: %v", err)
		}
	}()

	return c.JSON(http.StatusOK, allocationResp{RunID: runID, Result: res, Summary: summary})
}

// ListRuns returns run history headers, newest first.
func (h *AllocationHandler) ListRuns(c echo.Context) error {
	limit := 0
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	runs, err := h.Runs.List(ctx, limit)
	if err != nil {
		return repoError(c, err)
	}
	if runs == nil {
		runs = []repository.Run{}
	}
	return c.JSON(http.StatusOK, runs)
}

// GetRun returns one recorded run including its result document.
func (h *AllocationHandler) GetRun(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid run id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	run, err := h.Runs.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}
