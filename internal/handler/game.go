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

// GameHandler exposes matchmaking and the in-match lifecycle.
type GameHandler struct {
	playerService *service.PlayerService
	matchService  *service.MatchService
	gameService   *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	playerService *service.PlayerService,
	matchService *service.MatchService,
	gameService *service.GameService,
) *GameHandler {
	return &GameHandler{
		playerService: playerService,
		matchService:  matchService,
		gameService:   gameService,
	}
}

// currentPlayer resolves the authenticated identity to its player
// profile.
func (h *GameHandler) currentPlayer(r *http.Request) (*domain.Player, error) {
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

func gameIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid game ID")
	}
	return id, nil
}

// Matchmake handles POST /games/matchmake.
func (h *GameHandler) Matchmake(w http.ResponseWriter, r *http.Request) {
	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.matchService.FindOrCreateGame(r.Context(), player.ID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// GetActive handles GET /games/active. Responds with a JSON null body
// when the player has no current game.
func (h *GameHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.gameService.GetActiveGame(r.Context(), player.ID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if game == nil {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("null\n"))
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// GetGame handles GET /games/{gameID}.
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.gameService.GetGame(r.Context(), gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// GetEvents handles GET /games/{gameID}/events.
func (h *GameHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.gameService.GetGameEvents(r.Context(), gameID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// Score handles POST /games/{gameID}/score.
func (h *GameHandler) Score(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Points int `json:"points"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.gameService.ScorePoint(r.Context(), player.ID, gameID, input.Points)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// UpdateTime handles POST /games/{gameID}/time.
func (h *GameHandler) UpdateTime(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		TimeLeft int `json:"time_left"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.gameService.UpdateGameTime(r.Context(), player.ID, gameID, input.TimeLeft); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// End handles POST /games/{gameID}/end.
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	game, err := h.gameService.EndGame(r.Context(), player.ID, gameID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if game == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	RespondJSON(w, http.StatusOK, game)
}

// Leave handles POST /games/{gameID}/leave.
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDParam(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	if err := h.matchService.LeaveGame(r.Context(), player.ID, gameID); err != nil {
		RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recent handles GET /games/recent.
func (h *GameHandler) Recent(w http.ResponseWriter, r *http.Request) {
	player, err := h.currentPlayer(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	games, err := h.gameService.GetRecentGames(r.Context(), player.ID, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
	})
}
