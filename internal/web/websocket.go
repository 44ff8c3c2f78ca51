package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nullprose/magictext/internal/picker"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleRenderStream upgrades to a websocket and pushes one JSON message per
// rendered token, in render order, terminating the connection when Render
// does. This models "re-enumeration restarts the picker" at the transport
// layer: every connection is a fresh live run, never a cached replay.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.RLock()
	cached, ok := s.pens[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown corpus id: "+id)
		return
	}

	n, seed := parseStreamParams(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	pick := picker.Seeded(seed)
	for tok := range cached.Inner().Render(n, pick) {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		var value any
		if !tok.IsNull() {
			value = tok.String()
		}
		if err := conn.WriteJSON(map[string]any{"token": value}); err != nil {
			s.logger.Debug("websocket write failed, closing stream", zap.Error(err))
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "render complete"))
}

func parseStreamParams(r *http.Request) (n int, seed int64) {
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("n")); err == nil {
		n = v
	}
	if v, err := strconv.ParseInt(q.Get("seed"), 10, 64); err == nil {
		seed = v
	}
	return n, seed
}
