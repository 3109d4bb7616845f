package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"facilitator/internal/interval"
)

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchOutbound struct {
	Type       string          `json:"type"`
	IntervalID string          `json:"intervalId,omitempty"`
	Event      *interval.Event `json:"event,omitempty"`
}

// HandleWatch streams the progress of one interval over a websocket: the
// events already recorded first, then live ones until the interval ends.
func (h *MeetingHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, invalid("interval id is required"))
		return
	}
	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})
	// The client sends nothing; reading surfaces close frames and pongs.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	backlog, events, unsubscribe := h.svc.Hub().Subscribe(id)
	defer unsubscribe()

	write := func(out watchOutbound) bool {
		if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
			return false
		}
		return conn.WriteJSON(out) == nil
	}
	if !write(watchOutbound{Type: "subscribed", IntervalID: id}) {
		return
	}
	for i := range backlog {
		if !write(watchOutbound{Type: "event", IntervalID: id, Event: &backlog[i]}) {
			return
		}
	}

	ticker := time.NewTicker(watchPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				_ = write(watchOutbound{Type: "closed", IntervalID: id})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(watchWriteWait))
				return
			}
			if !write(watchOutbound{Type: "event", IntervalID: id, Event: &e}) {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
