package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/auth"
	"github.com/runlog/runlog-api/internal/model"
	"github.com/runlog/runlog-api/internal/repository"
)

// Intervals carry no validation rules: whatever parses is stored and any
// field the database rejects surfaces as a generic write failure. This
// mirrors the historical behavior; see the interval model.

// ListIntervals handles GET /api/runs/:id/intervals.
func (h *RunHandler) ListIntervals(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	run, err := h.Runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch intervals"})
	}
	owner, err := h.Users.GetByID(ctx, run.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch intervals"})
	}

	intervals, err := h.Intervals.ListByRun(ctx, run.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch intervals"})
	}
	out := make([]map[string]any, 0, len(intervals))
	for i := range intervals {
		out = append(out, intervals[i].Serialize(run, owner))
	}
	return c.JSON(http.StatusOK, echo.Map{"intervals": out})
}

// CreateInterval handles POST /api/runs/:id/intervals. Only the run's owner
// may attach intervals.
func (h *RunHandler) CreateInterval(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, err := h.callerUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	run, err := h.Runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create interval"})
	}
	if err := auth.RequireRunOwner(caller.ID, run); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's run"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	interval := model.Interval{RunID: run.ID}
	patchInt(form, "distance", &interval.Distance)
	patchInt(form, "duration", &interval.Duration)
	patchBool(form, "metric", &interval.Metric)

	if err := h.Intervals.Create(ctx, &interval); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create interval"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"interval": interval.Serialize(run, caller)})
}

// DeleteInterval handles DELETE /api/intervals/:id. Restricted to the owner
// of the run the interval belongs to.
func (h *RunHandler) DeleteInterval(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Interval does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	interval, err := h.Intervals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrIntervalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Interval does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete interval"})
	}
	run, err := h.Runs.GetByID(ctx, interval.RunID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete interval"})
	}
	if err := auth.RequireRunOwner(callerID, run); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's run"})
	}

	if err := h.Intervals.Delete(ctx, interval.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete interval"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Interval deleted"})
}
