package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/capacity"
	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/report"
)

// CapacityHandler serves the capacity engine.  Requests may carry the
// whole dataset inline; any part left out is loaded from storage, so a
// bare POST computes capacity for the stored airport.
type CapacityHandler struct {
	Dataset *DatasetHandler
}

func NewCapacityHandler(d *DatasetHandler) *CapacityHandler {
	return &CapacityHandler{Dataset: d}
}

type capacityReq struct {
	Types    []model.AircraftType       `json:"aircraft_types"`
	Stands   []model.Stand              `json:"stands"`
	Rules    []model.AdjacencyRule      `json:"adjacency_rules"`
	Settings *model.OperationalSettings `json:"settings"`
}

func (h *CapacityHandler) buildInput(c echo.Context, req *capacityReq) (capacity.Input, error) {
	ctx, cancel := reqCtx(c)
	defer cancel()

	in := capacity.Input{Types: req.Types, Stands: req.Stands, Rules: req.Rules}
	var err error
	if len(in.Types) == 0 {
		if in.Types, err = h.Dataset.Types.List(ctx); err != nil {
			return in, err
		}
	}
	if len(in.Stands) == 0 {
		if in.Stands, err = h.Dataset.Stands.List(ctx); err != nil {
			return in, err
		}
	}
	if len(in.Rules) == 0 && len(req.Stands) == 0 {
		// Stored rules only make sense against stored stands.
		if in.Rules, err = h.Dataset.Rules.Rules(ctx); err != nil {
			return in, err
		}
	}
	if req.Settings != nil {
		in.Settings = *req.Settings
	} else {
		if in.Settings, err = h.Dataset.Settings.Get(ctx, h.Dataset.defaultSettings()); err != nil {
			return in, err
		}
	}
	return in, nil
}

// Calculate runs the engine and returns the matrices plus summary as
// JSON, or the flat matrix rows as CSV when ?format=csv.
func (h *CapacityHandler) Calculate(c echo.Context) error {
	var req capacityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	in, err := h.buildInput(c, &req)
	if err != nil {
		return repoError(c, err)
	}
	res, err := capacity.Calculate(c.Request().Context(), in)
	if err != nil {
		return engineError(c, err)
	}

	if c.QueryParam("format") == "csv" {
		return writeCSV(c, "capacity.csv", report.CapacityCSV(res))
	}
	return c.JSON(http.StatusOK, res)
}
