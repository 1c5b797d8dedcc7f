package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/auth"
	"github.com/runlog/runlog-api/internal/model"
	"github.com/runlog/runlog-api/internal/repository"
)

// RunHandler serves runs and their intervals.
type RunHandler struct {
	Users     *repository.UserRepo
	Runs      *repository.RunRepo
	Comments  *repository.CommentRepo
	Intervals *repository.IntervalRepo
}

func NewRunHandler(users *repository.UserRepo, runs *repository.RunRepo, comments *repository.CommentRepo, intervals *repository.IntervalRepo) *RunHandler {
	return &RunHandler{Users: users, Runs: runs, Comments: comments, Intervals: intervals}
}

// applyRunPatch copies the supplied form fields onto the candidate run.
// Shared by create (all fields start absent) and update (fields start at
// their stored values). The owner field is not part of the patch: clients
// cannot supply or change it.
func applyRunPatch(form url.Values, run *model.Run) {
	patchDate(form, "run_date", &run.RunDate)
	patchInt(form, "distance", &run.Distance)
	patchInt(form, "duration", &run.Duration)
	patchBool(form, "metric", &run.Metric)
	patchInt(form, "warmup", &run.Warmup)
	patchInt(form, "cooldown", &run.Cooldown)
	patchString(form, "run_type", &run.RunType)
	patchString(form, "location", &run.Location)
	patchString(form, "notes", &run.Notes)
}

// List handles GET /api/runs, scoped to the caller's own runs.
func (h *RunHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, err := h.callerUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	runs, err := h.Runs.ListByUser(ctx, caller.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch runs"})
	}
	out := make([]map[string]any, 0, len(runs))
	for i := range runs {
		out = append(out, runs[i].Serialize(caller))
	}
	return c.JSON(http.StatusOK, echo.Map{"runs": out})
}

// Create handles POST /api/runs. The new run's owner is forced to the
// caller's identity.
func (h *RunHandler) Create(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	caller, err := h.callerUser(c, ctx)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	run := model.Run{UserID: caller.ID}
	applyRunPatch(form, &run)

	if err := run.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Runs.Create(ctx, &run); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create run"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"run": run.Serialize(caller)})
}

// Detail handles GET /api/runs/:id. Any authenticated caller may read any
// run; the projection always carries run_comments and intervals, possibly
// empty. Every nested record is fetched through an explicit repository call.
func (h *RunHandler) Detail(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch run"})
	}
	owner, err := h.Users.GetByID(ctx, run.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch run"})
	}

	comments, err := h.Comments.ListByRun(ctx, run.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch run"})
	}
	commentViews := make([]map[string]any, 0, len(comments))
	for i := range comments {
		author, err := h.Users.GetByID(ctx, comments[i].UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch run"})
		}
		commentViews = append(commentViews, comments[i].Serialize(run, owner, author))
	}

	intervals, err := h.Intervals.ListByRun(ctx, run.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch run"})
	}
	intervalViews := make([]map[string]any, 0, len(intervals))
	for i := range intervals {
		intervalViews = append(intervalViews, intervals[i].Serialize(run, owner))
	}

	return c.JSON(http.StatusOK, echo.Map{"run": run.SerializeWithChildren(owner, commentViews, intervalViews)})
}

// Update handles PUT /api/runs/:id. Owner only; existence is decided before
// ownership so a missing run is a 404 even for a non-owner.
func (h *RunHandler) Update(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update run"})
	}
	if err := auth.RequireRunOwner(caller.ID, run); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's run"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	applyRunPatch(form, run)

	if err := run.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Runs.Update(ctx, run); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update run"})
	}
	return c.JSON(http.StatusOK, echo.Map{"run": run.Serialize(caller)})
}

// Delete handles DELETE /api/runs/:id. Owner only; hard delete.
func (h *RunHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	run, err := h.Runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Run does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete run"})
	}
	if err := auth.RequireRunOwner(callerID, run); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's run"})
	}

	if err := h.Runs.Delete(ctx, run.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete run"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Run deleted"})
}

// callerUser resolves the authenticated user's row from the JWT subject.
func (h *RunHandler) callerUser(c echo.Context, ctx context.Context) (*model.User, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByID(ctx, uid)
}
