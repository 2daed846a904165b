package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finbook/finbook/internal/rest"
	"github.com/finbook/finbook/pkg/session"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid       string `json:"uid"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type RegisterRequestDTO struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register creates a new account with an empty ledger.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering user")
	w.Header().Set("Content-Type", "application/json")

	var request RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	created, err := h.service.Register(r.Context(), request.Email, request.Username, request.Password)
	if err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(userToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Login verifies credentials and returns the account data.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Debug("Logging in user")
	w.Header().Set("Content-Type", "application/json")

	var request LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format")
		return
	}

	logged, err := h.service.Login(r.Context(), request.Email, request.Username, request.Password)
	if err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(logged)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetCurrentUser returns the account behind the current session.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting current user")
	w.Header().Set("Content-Type", "application/json")

	current, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RecentMonths lists the months the user opened most recently.
func (h *Handler) RecentMonths(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing recent months")
	w.Header().Set("Content-Type", "application/json")

	months, err := h.service.RecentMonths(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}

	keys := make([]string, 0, len(months))
	for _, m := range months {
		keys = append(keys, m.String())
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(keys); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserDataInvalid):
		rest.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserExists):
		rest.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		rest.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrUserNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoUser):
		rest.WriteError(w, http.StatusForbidden, err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func userToDTO(u User) UserDTO {
	dto := UserDTO{Uid: u.Uid, Email: u.Email, Username: u.Username}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return dto
}
