package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/config"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/report"
	"github.com/avikern/stand-planner/internal/repository"
	"github.com/avikern/stand-planner/internal/timeutil"
	"github.com/avikern/stand-planner/internal/validation"
)

// ValidationHandler runs the flight batch validator over posted records.
type ValidationHandler struct {
	Cfg    config.Config
	Types  *repository.AircraftTypeRepo
	Stands *repository.StandRepo
}

func NewValidationHandler(cfg config.Config, t *repository.AircraftTypeRepo, s *repository.StandRepo) *ValidationHandler {
	return &ValidationHandler{Cfg: cfg, Types: t, Stands: s}
}

type referencePart struct {
	Airlines      []string                `json:"airlines"`
	AircraftTypes []model.AircraftType    `json:"aircraft_types"`
	Terminals     []string                `json:"terminals"`
	Connections   []validation.Connection `json:"connections"`
}

type rulesPart struct {
	MinTurnaroundMinutes int  `json:"min_turnaround_minutes"`
	DayFirst             bool `json:"day_first"`
}

type validateReq struct {
	Records   []validation.FlightRecord `json:"records"`
	Reference *referencePart            `json:"reference"`
	Rules     rulesPart                 `json:"rules"`
}

// buildRefs materialises the reference data for a request.  Aircraft
// types default to the stored fleet and terminals to the stored stands'
// terminals when the request leaves them out.  An empty airline list
// disables the airline check by accepting every code present in the
// batch; callers who want the check send the authoritative list.
func (h *ValidationHandler) buildRefs(c echo.Context, req *validateReq) (validation.ReferenceData, error) {
	refs := validation.ReferenceData{
		Airlines:  map[string]bool{},
		Terminals: map[string]bool{},
	}
	var part referencePart
	if req.Reference != nil {
		part = *req.Reference
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	refs.AircraftTypes = part.AircraftTypes
	if len(refs.AircraftTypes) == 0 {
		stored, err := h.Types.List(ctx)
		if err != nil {
			return refs, err
		}
		refs.AircraftTypes = stored
	}

	for _, t := range part.Terminals {
		refs.Terminals[t] = true
	}
	if len(refs.Terminals) == 0 {
		stands, err := h.Stands.List(ctx)
		if err != nil {
			return refs, err
		}
		for _, s := range stands {
			if s.Terminal != "" {
				refs.Terminals[s.Terminal] = true
			}
		}
	}
	if len(refs.Terminals) == 0 {
		for _, r := range req.Records {
			if t := strings.TrimSpace(r.Terminal); t != "" {
				refs.Terminals[t] = true
			}
		}
	}

	for _, a := range part.Airlines {
		refs.Airlines[a] = true
	}
	if len(refs.Airlines) == 0 {
		for _, r := range req.Records {
			if code := strings.TrimSpace(r.AirlineCode); code != "" {
				refs.Airlines[code] = true
			}
		}
	}

	refs.Connections = part.Connections
	return refs, nil
}

func (h *ValidationHandler) ruleSettings(req *validateReq) validation.BusinessRuleSettings {
	min := req.Rules.MinTurnaroundMinutes
	if min <= 0 {
		min = h.Cfg.DefaultMinTurnaround
	}
	return validation.BusinessRuleSettings{
		MinTurnaroundMinutes: min,
		DatePrefs: timeutil.DatePrefs{
			DayFirst: req.Rules.DayFirst,
			Location: h.Cfg.Timezone,
		},
	}
}

// Validate runs the batch checks and returns the report as JSON, or CSV
// when ?format=csv.
func (h *ValidationHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Records) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "records required"})
	}

	refs, err := h.buildRefs(c, &req)
	if err != nil {
		return repoError(c, err)
	}
	rep := validation.Validate(req.Records, refs, h.ruleSettings(&req))

	if c.QueryParam("format") == "csv" {
		return writeCSV(c, "validation-report.csv", report.ValidationCSV(rep))
	}
	return c.JSON(http.StatusOK, rep)
}
