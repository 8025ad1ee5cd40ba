package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/config"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/repository"
	"github.com/avikern/stand-planner/internal/timeutil"
)

// DatasetHandler serves CRUD for the planning reference data: aircraft
// types, stands, adjacency rules and the operational settings row.
type DatasetHandler struct {
	Cfg      config.Config
	Types    *repository.AircraftTypeRepo
	Stands   *repository.StandRepo
	Rules    *repository.RuleRepo
	Settings *repository.SettingsRepo
}

func NewDatasetHandler(cfg config.Config, t *repository.AircraftTypeRepo, s *repository.StandRepo, r *repository.RuleRepo, st *repository.SettingsRepo) *DatasetHandler {
	return &DatasetHandler{Cfg: cfg, Types: t, Stands: s, Rules: r, Settings: st}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// defaultSettings are used when no settings row was saved yet.  The
// operating day spans 06:00-22:00 in hour slots.
func (h *DatasetHandler) defaultSettings() model.OperationalSettings {
	return model.OperationalSettings{
		GapMinutes:          h.Cfg.DefaultGapMinutes,
		SlotDurationMinutes: 60,
		DayStart:            timeutil.ToD(6 * 3600),
		DayEnd:              timeutil.ToD(22 * 3600),
	}
}

// ----- aircraft types -----

type aircraftTypeReq struct {
	ID                   string `json:"id"`
	SizeCategory         string `json:"size_category"`
	AvgTurnaroundMinutes int    `json:"avg_turnaround_minutes"`
}

func (h *DatasetHandler) ListAircraftTypes(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	types, err := h.Types.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	if types == nil {
		types = []model.AircraftType{}
	}
	return c.JSON(http.StatusOK, types)
}

func (h *DatasetHandler) PutAircraftType(c echo.Context) error {
	var req aircraftTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	size, err := model.ParseSizeCategory(req.SizeCategory)
	if err != nil {
		return engineError(c, err)
	}
	t, err := model.NewAircraftType(req.ID, size, req.AvgTurnaroundMinutes)
	if err != nil {
		return engineError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Types.Upsert(ctx, t); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *DatasetHandler) DeleteAircraftType(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Types.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- stands -----

type standReq struct {
	ID              string   `json:"id"`
	CompatibleTypes []string `json:"compatible_types"`
	Terminal        string   `json:"terminal"`
	Pier            string   `json:"pier"`
	MaxSize         string   `json:"max_size"`
	HasJetbridge    bool     `json:"has_jetbridge"`
}

func (h *DatasetHandler) ListStands(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	stands, err := h.Stands.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	if stands == nil {
		stands = []model.Stand{}
	}
	return c.JSON(http.StatusOK, stands)
}

func (h *DatasetHandler) PutStand(c echo.Context) error {
	var req standReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := model.NewStand(req.ID, req.CompatibleTypes)
	if err != nil {
		return engineError(c, err)
	}
	s.Terminal, s.Pier, s.HasJetbridge = req.Terminal, req.Pier, req.HasJetbridge
	if req.MaxSize != "" {
		size, err := model.ParseSizeCategory(req.MaxSize)
		if err != nil {
			return engineError(c, err)
		}
		s.MaxSize = size
	}

	// Every listed compatible type must exist before the stand is saved.
	ctx, cancel := reqCtx(c)
	defer cancel()
	for _, tid := range s.CompatibleTypes {
		if _, err := h.Types.GetByID(ctx, tid); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "inconsistent_input", "message": "unknown aircraft type " + tid,
			})
		}
	}
	if err := h.Stands.Upsert(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *DatasetHandler) DeleteStand(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Stands.Delete(ctx, c.Param("id")); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- adjacency rules -----

type ruleReq struct {
	PrimaryStand  string   `json:"primary_stand"`
	TriggerTypes  []string `json:"trigger_types"`
	AffectedStand string   `json:"affected_stand"`
	Kind          string   `json:"kind"`
	Size          string   `json:"size"`
	Type          string   `json:"type"`
}

func (h *DatasetHandler) ListRules(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rules, err := h.Rules.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	if rules == nil {
		rules = []repository.StoredRule{}
	}
	return c.JSON(http.StatusOK, rules)
}

func (h *DatasetHandler) CreateRule(c echo.Context) error {
	var req ruleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	restr := model.Restriction{Kind: model.RestrictionKind(req.Kind), Type: req.Type}
	if req.Size != "" {
		size, err := model.ParseSizeCategory(req.Size)
		if err != nil {
			return engineError(c, err)
		}
		restr.Size = size
	}
	rule, err := model.NewAdjacencyRule(req.PrimaryStand, req.TriggerTypes, req.AffectedStand, restr)
	if err != nil {
		return engineError(c, err)
	}

	// Rules must resolve against stored stands.
	ctx, cancel := reqCtx(c)
	defer cancel()
	for _, sid := range []string{rule.PrimaryStand, rule.AffectedStand} {
		if _, err := h.Stands.GetByID(ctx, sid); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "inconsistent_input", "message": "unknown stand " + sid,
			})
		}
	}
	id, err := h.Rules.Create(ctx, rule)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, repository.StoredRule{ID: id, Rule: rule})
}

func (h *DatasetHandler) DeleteRule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rule id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Rules.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- operational settings -----

func (h *DatasetHandler) GetSettings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	s, err := h.Settings.Get(ctx, h.defaultSettings())
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *DatasetHandler) PutSettings(c echo.Context) error {
	var s model.OperationalSettings
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := s.Validate(); err != nil {
		return engineError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Settings.Save(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
