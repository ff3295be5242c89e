package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	actionConnect = "connect"
	actionState   = "game:state"
	actionDrop    = "game:drop"
	actionReset   = "game:reset"
	actionError   = "error"
)

const (
	codeBadRequest   = "bad_request"
	codeNotConnected = "not_connected"
	codeExpired      = "session_expired"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Session      *entity.Session    `json:"session,omitempty"`
	Game         *entity.Game       `json:"game,omitempty"`
	Move         *entity.MoveResult `json:"move,omitempty"`
	Column       *int               `json:"column,omitempty"`
	Message      string             `json:"message,omitempty"`
	ValidColumns []int              `json:"valid_columns,omitempty"`
	Error        string             `json:"error,omitempty"`
	Code         string             `json:"code,omitempty"`
}
