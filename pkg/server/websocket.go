package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/asyncell-dev/asyncell/pkg/cell"
	"github.com/asyncell-dev/asyncell/pkg/todo"
)

const (
	// wsWriteTimeout bounds each frame write.
	wsWriteTimeout = 10 * time.Second

	// wsEventBuffer is the per-connection transition queue. Transitions
	// beyond the buffer are dropped; the client always converges on the
	// next one because every event carries the full snapshot.
	wsEventBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleWS upgrades the connection and pushes every cell transition as a
// JSON snapshot until the client disconnects. The Watch subscription is
// removed on disconnect, so a closed observer receives nothing further.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events := make(chan stateDTO, wsEventBuffer)
	unsub := s.ctrl.Cell().Watch(func(v cell.AsyncValue[[]todo.Item]) {
		select {
		case events <- snapshotDTO(v):
		default:
			// Slow consumer; drop. Snapshots are self-contained.
		}
	})
	defer unsub()

	// Initial snapshot so the client renders without waiting for a
	// transition.
	if err := s.writeEvent(conn, snapshotDTO(s.ctrl.Cell().Peek())); err != nil {
		return
	}

	// Reader goroutine detects client close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev := <-events:
			if err := s.writeEvent(conn, ev); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure) {
					s.log.Error("websocket write failed", "error", err)
				}
				return
			}
		}
	}
}

func (s *Server) writeEvent(conn *websocket.Conn, ev stateDTO) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(ev)
}
