package handler

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/model"
	"github.com/avikern/stand-planner/internal/repository"
)

// engineError translates engine failures into HTTP responses: malformed
// input is 400, inputs that contradict each other are 422, a cancelled
// run is 503.
func engineError(c echo.Context, err error) error {
	var in *model.InputError
	if errors.As(err, &in) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid_input", "field": in.Field, "message": in.Msg,
		})
	}
	var lg *model.LogicError
	if errors.As(err, &lg) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "inconsistent_input", "context": lg.Context, "message": lg.Msg,
		})
	}
	if errors.Is(err, model.ErrAborted) {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "run aborted"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// repoError maps repository sentinels onto 404/409.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
}

// writeCSV streams rows as a CSV attachment.
func writeCSV(c echo.Context, filename string, rows [][]string) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	w := csv.NewWriter(c.Response())
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
