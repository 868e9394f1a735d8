package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appuser "github.com/tommy-mor/spare/internal/app/user"
	"github.com/tommy-mor/spare/internal/http/binding"
	"github.com/tommy-mor/spare/internal/http/responses"
	"github.com/tommy-mor/spare/internal/logging"
)

const (
	msgUserNotFound  = "User not found"
	msgInvalidEmail  = "Invalid email"
	msgInvalidName   = "Invalid name"
	msgEmailConflict = "Email already exists"
	msgInternal      = "Internal server error"
)

type Handler struct {
	service appuser.Service
	logger  logging.Logger
}

func NewHandler(service appuser.Service, logger logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("component", "user_http_handler"),
	}
}

// List GET /users
//
// @Summary  List users
// @Tags     users
// @Produce  json
// @Param    limit   query    int false "Page size (default 50, max 100)"
// @Param    offset  query    int false "Items to skip"
// @Success  200     {array}  apidocs.UserResponse
// @Failure  400     {object} apidocs.ErrorResponse
// @Router   /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		responses.WriteBadRequest(w, "Invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset")
	if !ok {
		responses.WriteBadRequest(w, "Invalid offset")
		return
	}

	users, err := h.service.List(r.Context(), appuser.ListUsersInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeServiceError(w, err, "list")
		return
	}

	responses.WriteJSON(w, http.StatusOK, users)
}

// Create POST /users
//
// @Summary  Create a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body  body     apidocs.CreateUserRequest true "New user"
// @Success  201   {object} apidocs.UserResponse
// @Failure  400   {object} apidocs.ErrorResponse
// @Failure  409   {object} apidocs.ErrorResponse
// @Router   /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !binding.BindAndValidate(w, r, &req) {
		return
	}

	dto, err := h.service.Create(r.Context(), appuser.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		h.writeServiceError(w, err, "create")
		return
	}

	responses.WriteJSON(w, http.StatusCreated, dto)
}

// GetByID GET /users/{id}
//
// @Summary  Get a user
// @Tags     users
// @Produce  json
// @Param    id   path     string true "User id"
// @Success  200  {object} apidocs.UserResponse
// @Failure  404  {object} apidocs.ErrorResponse
// @Router   /users/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dto, err := h.service.GetById(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "get", "id", id)
		return
	}

	responses.WriteJSON(w, http.StatusOK, dto)
}

// Update PUT /users/{id}
//
// @Summary  Update a user
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    id    path     string                    true "User id"
// @Param    body  body     apidocs.UpdateUserRequest true "Fields to change"
// @Success  200   {object} apidocs.UserResponse
// @Failure  400   {object} apidocs.ErrorResponse
// @Failure  404   {object} apidocs.ErrorResponse
// @Failure  409   {object} apidocs.ErrorResponse
// @Router   /users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if !binding.BindAndValidate(w, r, &req) {
		return
	}

	dto, err := h.service.Update(r.Context(), appuser.UpdateUserInput{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.writeServiceError(w, err, "update", "id", id)
		return
	}

	responses.WriteJSON(w, http.StatusOK, dto)
}

// Delete DELETE /users/{id}
//
// @Summary  Delete a user
// @Tags     users
// @Param    id   path     string true "User id"
// @Success  204
// @Failure  404  {object} apidocs.ErrorResponse
// @Router   /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err, "delete", "id", id)
		return
	}

	responses.WriteNoContent(w)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, op string, args ...any) {
	switch {
	case appuser.IsNotFound(err):
		responses.WriteError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, appuser.ErrInvalidEmail):
		responses.WriteBadRequest(w, msgInvalidEmail)
	case errors.Is(err, appuser.ErrInvalidName):
		responses.WriteBadRequest(w, msgInvalidName)
	case appuser.IsConflict(err):
		responses.WriteError(w, http.StatusConflict, msgEmailConflict)
	default:
		h.logger.Error("failed to "+op+" user", append([]any{"error", err}, args...)...)
		responses.WriteError(w, http.StatusInternalServerError, msgInternal)
	}
}

// queryInt returns 0 for an absent parameter and false for a malformed or
// negative one.
func queryInt(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
