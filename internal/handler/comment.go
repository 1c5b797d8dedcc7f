package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/runlog/runlog-api/internal/auth"
	"github.com/runlog/runlog-api/internal/model"
	"github.com/runlog/runlog-api/internal/repository"
)

// CommentHandler serves run comments. Any authenticated caller may comment
// on any existing run; only the author may change or remove a comment.
type CommentHandler struct {
	Users    *repository.UserRepo
	Runs     *repository.RunRepo
	Comments *repository.CommentRepo
}

func NewCommentHandler(users *repository.UserRepo, runs *repository.RunRepo, comments *repository.CommentRepo) *CommentHandler {
	return &CommentHandler{Users: users, Runs: runs, Comments: comments}
}

// ListForRun handles GET /api/runs/:id/comments.
func (h *CommentHandler) ListForRun(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comments"})
	}
	owner, err := h.Users.GetByID(ctx, run.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comments"})
	}

	comments, err := h.Comments.ListByRun(ctx, run.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comments"})
	}
	out := make([]map[string]any, 0, len(comments))
	for i := range comments {
		author, err := h.Users.GetByID(ctx, comments[i].UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comments"})
		}
		out = append(out, comments[i].Serialize(run, owner, author))
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": out})
}

// Create handles POST /api/runs/:id/comments. The author is forced to the
// caller's identity.
func (h *CommentHandler) Create(c echo.Context) error {
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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create comment"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	comment := model.RunComment{RunID: run.ID, UserID: caller.ID}
	patchString(form, "comment", &comment.Comment)

	if err := comment.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Comments.Create(ctx, &comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create comment"})
	}

	owner, err := h.Users.GetByID(ctx, run.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create comment"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": comment.Serialize(run, owner, caller)})
}

// Detail handles GET /api/comments/:id.
func (h *CommentHandler) Detail(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comment"})
	}

	view, ok := h.serializeComment(ctx, comment)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to fetch comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comment": view})
}

// Update handles PUT /api/comments/:id. Author only.
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update comment"})
	}
	if err := auth.RequireCommentAuthor(callerID, comment); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's comment"})
	}

	form, err := formValues(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	patchString(form, "comment", &comment.Comment)

	if err := comment.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Comments.Update(ctx, comment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update comment"})
	}

	view, ok := h.serializeComment(ctx, comment)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to update comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comment": view})
}

// Delete handles DELETE /api/comments/:id. Author only; hard delete.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	callerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	comment, err := h.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Comment does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete comment"})
	}
	if err := auth.RequireCommentAuthor(callerID, comment); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You cannot modify another user's comment"})
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to delete comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted"})
}

// serializeComment loads the comment's run, the run's owner and the author,
// then builds the full projection.
func (h *CommentHandler) serializeComment(ctx context.Context, comment *model.RunComment) (map[string]any, bool) {
	run, err := h.Runs.GetByID(ctx, comment.RunID)
	if err != nil {
		return nil, false
	}
	owner, err := h.Users.GetByID(ctx, run.UserID)
	if err != nil {
		return nil, false
	}
	author, err := h.Users.GetByID(ctx, comment.UserID)
	if err != nil {
		return nil, false
	}
	return comment.Serialize(run, owner, author), true
}

// callerUser resolves the authenticated user's row from the JWT subject.
func (h *CommentHandler) callerUser(c echo.Context, ctx context.Context) (*model.User, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	return h.Users.GetByID(ctx, uid)
}
