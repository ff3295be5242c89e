package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

const codeBadRequest = "bad_request"

type gameResponse struct {
	Game         *entity.Game       `json:"game"`
	Move         *entity.MoveResult `json:"move,omitempty"`
	Message      string             `json:"message"`
	ValidColumns []int              `json:"valid_columns"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type dropRequest struct {
	Column *int `json:"column"`
}

type gameHandler struct {
	logger  *slog.Logger
	manager gameManager
}

func newGameHandler(logger *slog.Logger, manager gameManager) *gameHandler {
	return &gameHandler{
		logger:  logger.With("component", "rest"),
		manager: manager,
	}
}

func (that *gameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "GetGame")

	session, err := that.resolveSession(w, r)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		that.writeInternalError(w)
		return
	}

	game, err := that.manager.GetOrCreateGame(r.Context(), session.ID)
	if err != nil {
		log.Error("failed to get or create game", "error", err)
		that.writeInternalError(w)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, nil))
}

func (that *gameHandler) DropToken(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "DropToken")

	var request dropRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Column == nil {
		log.Debug("invalid drop request", "error", err)
		that.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "request body must be {\"column\": <0-6>}",
			Code:  codeBadRequest,
		})
		return
	}

	session, err := that.resolveSession(w, r)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		that.writeInternalError(w)
		return
	}

	game, move, err := that.manager.DropToken(r.Context(), session.ID, *request.Column)
	if apperror.IsRuleViolation(err) {
		that.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(),
			Code:  apperror.Code(err),
		})
		return
	}

	if err != nil {
		log.Error("failed to drop token", "error", err)
		that.writeInternalError(w)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, &move))
}

func (that *gameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ResetGame")

	session, err := that.resolveSession(w, r)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		that.writeInternalError(w)
		return
	}

	game, err := that.manager.ResetGame(r.Context(), session.ID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		that.writeInternalError(w)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, nil))
}

func newGameResponse(game *entity.Game, move *entity.MoveResult) gameResponse {
	return gameResponse{
		Game:         game,
		Move:         move,
		Message:      game.Status.Message(),
		ValidColumns: usecase.ValidColumns(game),
	}
}

func (that *gameHandler) writeInternalError(w http.ResponseWriter) {
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "Internal Server Error",
		Code:  apperror.Code(nil),
	})
}

func (that *gameHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
