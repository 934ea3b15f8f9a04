package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ketball/backend/internal/auth"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/service"
)

// PlayerHandler exposes player profiles and the leaderboard.
type PlayerHandler struct {
	playerService *service.PlayerService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

// currentPlayer resolves the authenticated identity to its player
// profile, creating it on first contact.
func (h *PlayerHandler) currentPlayer(r *http.Request) (*domain.Player, error) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthorized("missing identity")
	}

	var email string
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		email = claims.Email
	}
	return h.playerService.GetOrCreate(r.Context(), userID, email)
}

// GetMe handles GET /players/me.
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, player)
}

// GetPlayer handles GET /players/{playerID}.
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid player ID"))
		return
	}

	player, err := h.playerService.GetByID(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, player)
}

// UpdateUsername handles PATCH /players/me/username.
func (h *PlayerHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	player, err := h.playerService.UpdateUsername(r.Context(), userID, input.Username)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, player)
}

// UpdateAvatarColor handles PATCH /players/me/color.
func (h *PlayerHandler) UpdateAvatarColor(w http.ResponseWriter, r *http.Request) {
	var input struct {
		AvatarColor string `json:"avatar_color"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	player, err := h.playerService.UpdateAvatarColor(r.Context(), userID, input.AvatarColor)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, player)
}

// Leaderboard handles GET /leaderboard.
func (h *PlayerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	players, err := h.playerService.GetLeaderboard(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
	})
}
