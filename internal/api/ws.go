package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsReadTimeout  = 30 * time.Second
)

// Stream message types.
const (
	msgProgress = "progress"
	msgResult   = "result"
	msgError    = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamMessage is one frame sent to the client.
type streamMessage struct {
	Type      string            `json:"type"`
	Stage     domain.Stage      `json:"stage,omitempty"`
	TokenData *domain.TokenData `json:"tokenData,omitempty"`
	Analysis  string            `json:"analysis,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// wsConn serializes writes; progress callbacks fire from several goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg streamMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
}

// handleStream runs one check per connection and streams stage events,
// then a single result or error frame.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.logger.WithField("request_id", uuid.NewString())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		observability.RecordHTTPRequest(StreamPath, http.StatusBadRequest, time.Since(start).Seconds())
		return
	}
	c := &wsConn{conn: conn}
	defer c.close()

	status := h.stream(c, r, log)
	observability.RecordHTTPRequest(StreamPath, status, time.Since(start).Seconds())
}

func (h *Handler) stream(c *wsConn, r *http.Request, log logrus.FieldLogger) int {
	c.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		log.WithError(err).Debug("websocket closed before request")
		return http.StatusBadRequest
	}

	var req checkRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.send(streamMessage{Type: msgError, Error: errMsgBadBody})
		return http.StatusBadRequest
	}

	address, status, msg := validateAddress(req.ContractAddress)
	if status != http.StatusOK {
		c.send(streamMessage{Type: msgError, Error: msg})
		return status
	}
	log = log.WithField("address", address)
	log.Info("received streamed check request")

	progress := func(stage domain.Stage) {
		if err := c.send(streamMessage{Type: msgProgress, Stage: stage}); err != nil {
			log.WithError(err).Debug("progress frame dropped")
		}
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go watchPeer(c.conn, cancel)

	result, err := h.checker.Check(ctx, address, progress)
	if err != nil {
		log.WithError(err).Error("error checking contract")
		c.send(streamMessage{Type: msgError, Error: errorMessage(err)})
		return statusFor(err)
	}

	if err := c.send(streamMessage{Type: msgResult, TokenData: result.TokenData, Analysis: result.Analysis}); err != nil {
		log.WithError(err).Warn("failed to deliver result")
	}
	return http.StatusOK
}

// watchPeer drains the connection after the request frame and cancels the
// check once the peer closes or the connection breaks.
func watchPeer(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadDeadline(time.Time{})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}
