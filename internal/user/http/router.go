package http

import (
	"net/http"
	"time"

	commonhttp "github.com/zibbid/postboard/internal/common/http"
	"github.com/zibbid/postboard/internal/common/jwtverify"
	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/policy"
	"github.com/zibbid/postboard/internal/user/domain"
	"github.com/zibbid/postboard/internal/user/service"
)

type updateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

// userResponse never carries the password hash.
type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type Handler struct {
	users    *service.Service
	verifier *jwtverify.Verifier
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(users *service.Service, verifier *jwtverify.Verifier, log *logger.Logger) *Handler {
	return &Handler{
		users:    users,
		verifier: verifier,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/users", h.collection)
	mux.HandleFunc("/users/", h.item)
}

// collection is admin-only: listing every account is an operator surface.
func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	claims, err := h.verifier.FromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ident := policy.IdentityFromClaims(claims)
	if err := policy.Evaluate(ident, policy.RequireRole(domain.RoleAdmin)); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	req, err := filter.ParseRequest(r.URL.Query())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	users, err := h.users.List(r.Context(), req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	claims, err := h.verifier.FromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	id, err := commonhttp.ParseIDFromPath(r.URL.Path, "/users/")
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ident := policy.IdentityFromClaims(claims)
	if err := policy.Evaluate(ident, policy.OwnerOrAdmin(id)); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	input := service.UpdateInput{
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	updated, err := h.users.Update(r.Context(), id, input)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
