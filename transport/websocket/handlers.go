package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
)

// handleConnect - binds the socket to the session in the payload, the session
// cookie, or a new session, and answers with the session's game.
func (that *Server) handleConnect(ctx context.Context, socket *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payloadReq Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return that.sendError(socket, msg.Action, codeBadRequest, "malformed payload")
		}
	}

	sessionID := socket.cookieID
	if payloadReq.Session != nil && payloadReq.Session.ID != "" {
		sessionID = payloadReq.Session.ID
	}

	session, err := that.manager.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get or create session", "error", err)
		return that.sendInternalError(socket, msg.Action)
	}

	game, err := that.manager.GetOrCreateGame(ctx, session.ID)
	if err != nil {
		log.Error("failed to get or create game", "session_id", session.ID, "error", err)
		return that.sendInternalError(socket, msg.Action)
	}

	socket.sessionID = session.ID
	session.GameID = game.ID

	log.Info("successfully connected session", "session_id", session.ID, "game_id", game.ID)

	payload := gamePayload(game, nil)
	payload.Session = session
	return that.sendMessage(socket, msg.Action, payload)
}

func (that *Server) handleState(ctx context.Context, socket *client, msg *Message) error {
	if socket.sessionID == "" {
		return that.sendError(socket, msg.Action, codeNotConnected, "send connect first")
	}

	game, err := that.manager.GetOrCreateGame(ctx, socket.sessionID)
	if err != nil {
		return that.sendFailure(socket, msg.Action, "handleState", err)
	}

	return that.sendMessage(socket, msg.Action, gamePayload(game, nil))
}

func (that *Server) handleDrop(ctx context.Context, socket *client, msg *Message) error {
	if socket.sessionID == "" {
		return that.sendError(socket, msg.Action, codeNotConnected, "send connect first")
	}

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil || payloadReq.Column == nil {
		return that.sendError(socket, msg.Action, codeBadRequest, "payload must be {\"column\": <0-6>}")
	}

	game, move, err := that.manager.DropToken(ctx, socket.sessionID, *payloadReq.Column)
	if apperror.IsRuleViolation(err) {
		return that.sendError(socket, msg.Action, apperror.Code(err), err.Error())
	}

	if err != nil {
		return that.sendFailure(socket, msg.Action, "handleDrop", err)
	}

	return that.sendMessage(socket, msg.Action, gamePayload(game, &move))
}

func (that *Server) handleReset(ctx context.Context, socket *client, msg *Message) error {
	if socket.sessionID == "" {
		return that.sendError(socket, msg.Action, codeNotConnected, "send connect first")
	}

	game, err := that.manager.ResetGame(ctx, socket.sessionID)
	if err != nil {
		return that.sendFailure(socket, msg.Action, "handleReset", err)
	}

	return that.sendMessage(socket, msg.Action, gamePayload(game, nil))
}

// sendFailure - an expired session unbinds the socket so the client connects again.
func (that *Server) sendFailure(socket *client, action, method string, err error) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		that.logger.Info("session expired", "method", method, "session_id", socket.sessionID)
		socket.sessionID = ""
		return that.sendError(socket, action, codeExpired, "session expired, send connect again")
	}

	that.logger.Error("request failed", "method", method, "session_id", socket.sessionID, "error", err)
	return that.sendInternalError(socket, action)
}

func (that *Server) sendInternalError(socket *client, action string) error {
	return that.sendError(socket, action, apperror.Code(nil), "internal error")
}

func gamePayload(game *entity.Game, move *entity.MoveResult) Payload {
	return Payload{
		Game:         game,
		Move:         move,
		Message:      game.Status.Message(),
		ValidColumns: usecase.ValidColumns(game),
	}
}
