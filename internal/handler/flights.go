package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/repository"
	"github.com/avikern/stand-planner/internal/timeutil"
	"github.com/avikern/stand-planner/internal/validation"
)

// FlightHandler imports and lists the flight schedule.  Imports run the
// batch validator first; rows carrying error-severity issues are
// rejected, the rest replace the stored schedule.
type FlightHandler struct {
	Validation *ValidationHandler
	Flights    *repository.FlightRepo
}

func NewFlightHandler(v *ValidationHandler, f *repository.FlightRepo) *FlightHandler {
	return &FlightHandler{Validation: v, Flights: f}
}

type importResp struct {
	Imported int               `json:"imported"`
	Rejected int               `json:"rejected"`
	Report   validation.Report `json:"report"`
}

// Import validates posted records and stores the clean rows as the new
// schedule.
func (h *FlightHandler) Import(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Records) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "records required"})
	}

	refs, err := h.Validation.buildRefs(c, &req)
	if err != nil {
		return repoError(c, err)
	}
	rules := h.Validation.ruleSettings(&req)
	rep := validation.Validate(req.Records, refs, rules)

	// Rows with at least one error are dropped from the import.
	badRows := make(map[int]bool)
	for _, is := range rep.Issues {
		if is.Severity == validation.SeverityError {
			badRows[is.Row] = true
		}
	}

	flights := make([]model.Flight, 0, len(req.Records))
	for i, r := range req.Records {
		row := r.Row
		if row == 0 {
			row = i + 1
		}
		if badRows[row] {
			continue
		}
		f, err := recordToFlight(r, rules.DatePrefs)
		if err != nil {
			// Validator accepted the row but parsing failed; count it
			// as rejected rather than failing the whole import.
			badRows[row] = true
			continue
		}
		flights = append(flights, f)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Flights.ReplaceAll(ctx, flights); err != nil {
		return repoError(c, err)
	}

	return c.JSON(http.StatusOK, importResp{
		Imported: len(flights),
		Rejected: len(req.Records) - len(flights),
		Report:   rep,
	})
}

// List returns the stored schedule.
func (h *FlightHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	flights, err := h.Flights.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	if flights == nil {
		flights = []model.Flight{}
	}
	return c.JSON(http.StatusOK, flights)
}

// recordToFlight converts a validated raw record into a typed flight.
func recordToFlight(r validation.FlightRecord, prefs timeutil.DatePrefs) (model.Flight, error) {
	nature, err := model.ParseFlightNature(r.Nature)
	if err != nil {
		return model.Flight{}, err
	}
	sched, _, err := timeutil.ParseDateIn(r.Scheduled, prefs)
	if err != nil {
		return model.Flight{}, err
	}
	f := model.Flight{
		ID:              strings.TrimSpace(r.ID),
		Number:          strings.TrimSpace(r.Number),
		AirlineCode:     strings.TrimSpace(r.AirlineCode),
		AircraftTypeID:  strings.TrimSpace(r.AircraftTypeID),
		Nature:          nature,
		Scheduled:       sched,
		OriginIATA:      strings.TrimSpace(r.OriginIATA),
		DestinationIATA: strings.TrimSpace(r.DestIATA),
		Terminal:        strings.TrimSpace(r.Terminal),
		LinkID:          strings.TrimSpace(r.LinkID),
	}
	if strings.TrimSpace(r.Estimated) != "" {
		est, _, err := timeutil.ParseDateIn(r.Estimated, prefs)
		if err != nil {
			return model.Flight{}, err
		}
		f.Estimated = &est
	}
	return f, nil
}
