package http

import (
	"net/http"
	"time"

	commonhttp "github.com/zibbid/postboard/internal/common/http"
	"github.com/zibbid/postboard/internal/common/jwtverify"
	"github.com/zibbid/postboard/internal/common/logger"
	"github.com/zibbid/postboard/internal/filter"
	"github.com/zibbid/postboard/internal/policy"
	"github.com/zibbid/postboard/internal/post/domain"
	"github.com/zibbid/postboard/internal/post/service"
)

type createPostRequest struct {
	Title   string `json:"title" validate:"required,min=5,max=30"`
	Content string `json:"content" validate:"required,min=5,max=300"`
}

type updatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=5,max=30"`
	Content *string `json:"content" validate:"omitempty,min=5,max=300"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

type Handler struct {
	posts    *service.Service
	verifier *jwtverify.Verifier
	errors   *commonhttp.ErrorHandler
	log      *logger.Logger
}

func NewHandler(posts *service.Service, verifier *jwtverify.Verifier, log *logger.Logger) *Handler {
	return &Handler{
		posts:    posts,
		verifier: verifier,
		errors:   commonhttp.NewErrorHandler(log),
		log:      log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/posts", h.collection)
	mux.HandleFunc("/posts/", h.item)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	id, err := commonhttp.ParseIDFromPath(r.URL.Path, "/posts/")
	if err != nil {
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

// list is public: browsing posts needs no session.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req, err := filter.ParseRequest(r.URL.Query())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	posts, err := h.posts.List(r.Context(), req)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponses(posts))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	claims, err := h.verifier.FromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var req createPostRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ident := policy.IdentityFromClaims(claims)
	created, err := h.posts.Create(r.Context(), ident.ID, service.CreateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toPostResponse(created))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, id int64) {
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// update is owner-only: even admins cannot edit another author's post.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, id int64) {
	claims, err := h.verifier.FromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	var req updatePostRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := commonhttp.ValidateStruct(req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ident := policy.IdentityFromClaims(claims)
	if err := policy.Evaluate(ident, policy.OwnerOnly(post.UserID)); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	updated, err := h.posts.Update(r.Context(), id, domain.Patch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	claims, err := h.verifier.FromRequest(r)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ident := policy.IdentityFromClaims(claims)
	if err := policy.Evaluate(ident, policy.OwnerOrAdmin(post.UserID)); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	// The removed record is echoed back so clients can reconcile caches.
	commonhttp.WriteJSON(w, http.StatusOK, toPostResponse(post))
}
