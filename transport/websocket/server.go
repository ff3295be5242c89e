package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	sessionCookieName = "user_session"

	maxMessageSize = 4096
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
)

type gameManager interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	DropToken(ctx context.Context, sessionID string, column int) (*entity.Game, entity.MoveResult, error)
	ResetGame(ctx context.Context, sessionID string) (*entity.Game, error)
}

// client - one socket. Messages of a client are handled one at a time.
type client struct {
	conn      *websocket.Conn
	sessionID string
	cookieID  string
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	mu  sync.Mutex
	srv *http.Server

	handlers map[string]func(ctx context.Context, client *client, message *Message) error
}

// New - browsers may connect from the socket's own host or one of allowedOrigins.
// Clients that send no Origin header are not browsers and are let through.
func New(logger *slog.Logger, manager gameManager, allowedOrigins ...string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket_server"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionState] = server.handleState
	server.handlers[actionDrop] = server.handleDrop
	server.handlers[actionReset] = server.handleReset

	return server
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		originURL, err := url.Parse(origin)
		if err != nil {
			return false
		}

		if strings.EqualFold(originURL.Host, r.Host) {
			return true
		}

		return slices.ContainsFunc(allowedOrigins, func(allowed string) bool {
			return strings.EqualFold(strings.TrimSuffix(allowed, "/"), origin)
		})
	}
}

// Handler - serves the socket on /ws. Connections live until ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	that.mu.Lock()
	that.srv = srv
	that.mu.Unlock()

	that.logger.Info("Starting WebSocket server", "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	that.mu.Lock()
	srv := that.srv
	that.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	socket := &client{conn: conn}
	if cookie, cookieErr := req.Cookie(sessionCookieName); cookieErr == nil {
		socket.cookieID = cookie.Value
	}

	log.Info("WebSocket connection established", "remote_addr", req.RemoteAddr)

	if err = that.handleMessages(ctx, socket); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, socket *client) error {
	log := that.logger.With("method", "handleMessages")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	socket.conn.SetReadLimit(maxMessageSize)
	_ = socket.conn.SetReadDeadline(time.Now().Add(pongWait))
	socket.conn.SetPongHandler(func(string) error {
		return socket.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go that.keepAlive(ctx, socket.conn)

	for {
		_, data, err := socket.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("WebSocket connection closed", "session_id", socket.sessionID)
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			if err = that.sendError(socket, actionError, codeBadRequest, "malformed message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			if err = that.sendError(socket, message.Action, codeBadRequest, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err = handler(ctx, socket, &message); err != nil {
			return fmt.Errorf("failed to process %s: %w", message.Action, err)
		}
	}
}

// keepAlive - pings until ctx is done, then closes the socket. WriteControl may
// run alongside WriteJSON.
func (that *Server) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (that *Server) sendMessage(socket *client, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_ = socket.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = socket.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(socket *client, action, code, errorMsg string) error {
	if err := that.sendMessage(socket, action, Payload{Error: errorMsg, Code: code}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
