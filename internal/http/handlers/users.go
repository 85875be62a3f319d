package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amkolotov/users/internal/auth"
	"github.com/amkolotov/users/internal/http/respond"
	"github.com/amkolotov/users/internal/logging"
	"github.com/amkolotov/users/internal/models"
	"github.com/amkolotov/users/internal/storage"
)

// birthdayFormat is the wire format for the optional birthday field.
const birthdayFormat = "02-01-2006"

// UserHandler owns the directory endpoints. Listing is open to anyone;
// detail, create, edit, and delete require the admin role, checked before
// any store mutation.
type UserHandler struct {
	store storage.UserStore
	guard *auth.Guard
	log   logging.Logger
}

func NewUserHandler(store storage.UserStore, guard *auth.Guard, log logging.Logger) *UserHandler {
	return &UserHandler{store: store, guard: guard, log: log}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleList)
	mux.HandleFunc("GET /detail/{user_id}", h.handleDetail)
	mux.HandleFunc("POST /create", h.handleCreate)
	mux.HandleFunc("POST /edit/{user_id}", h.handleEdit)
	mux.HandleFunc("DELETE /delete/{user_id}", h.handleDelete)
}

type userListItem struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	items := make([]userListItem, 0, len(users))
	for _, u := range users {
		items = append(items, userListItem{
			ID:        u.ID,
			Login:     u.Login,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	respond.JSON(w, http.StatusOK, items)
}

type userDetail struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	Disabled  bool   `json:"disabled"`
}

func (h *UserHandler) handleDetail(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r, models.RoleAdmin); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	detail := userDetail{
		ID:        user.ID,
		Login:     user.Login,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Disabled:  user.Disabled,
	}
	if user.Birthday != nil {
		detail.Birthday = user.Birthday.Format(birthdayFormat)
	}
	respond.JSON(w, http.StatusOK, detail)
}

type createUserRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
	Disabled  bool   `json:"disabled"`
	Role      string `json:"role"`
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r, models.RoleAdmin); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Login) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "login and password are required")
		return
	}

	role := models.DefaultRole
	if req.Role != "" {
		var err error
		if role, err = models.ParseRole(req.Role); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var birthday *time.Time
	if req.Birthday != "" {
		t, err := time.Parse(birthdayFormat, req.Birthday)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "birthday must be in DD-MM-YYYY format")
			return
		}
		birthday = &t
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user := models.User{
		Login:        strings.TrimSpace(req.Login),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Birthday:     birthday,
		Disabled:     req.Disabled,
	}
	if _, err := h.store.CreateUser(r.Context(), user, role); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.Message(w, http.StatusCreated, "success")
}

type editUserRequest struct {
	Login     *string `json:"login"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Birthday  *string `json:"birthday"`
	Disabled  *bool   `json:"disabled"`
}

func (h *UserHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r, models.RoleAdmin); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req editUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	patch := storage.UserPatch{
		Login:     req.Login,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Disabled:  req.Disabled,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		patch.PasswordHash = &hash
	}
	if req.Birthday != nil {
		t, err := time.Parse(birthdayFormat, *req.Birthday)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "birthday must be in DD-MM-YYYY format")
			return
		}
		patch.Birthday = &t
	}
	if patch.Empty() {
		respond.Error(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := h.store.UpdateUser(r.Context(), id, patch); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.Message(w, http.StatusOK, "success")
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r, models.RoleAdmin); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.Message(w, http.StatusOK, "success")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "user id must be a positive integer")
		return 0, false
	}
	return id, true
}
