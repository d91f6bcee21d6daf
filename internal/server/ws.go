package server

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"covidmap/internal/metrics"
	"covidmap/internal/playback"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// handlePlayback streams one Frame per report day. Query parameters: from
// (start day index) and pacing (duration, overrides the server default).
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	from := 0
	if v := r.URL.Query().Get("from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid from")
			return
		}
		from = n
	}
	pacing := s.opts.Pacing
	if v := r.URL.Query().Get("pacing"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid pacing")
			return
		}
		pacing = d
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("ws_upgrade", "err", err)
		return
	}
	defer ws.Close()

	session := uuid.NewString()
	l := s.log.With("session", session)
	metrics.PlaybackSessions.Inc()
	defer metrics.PlaybackSessions.Dec()
	l.Info("playback_open", "from", from, "pacing", pacing)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// the client never sends; a read error means it went away
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	seed := s.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := playback.New(s.timeline, s.scene,
		playback.WithPacing(pacing),
		playback.WithRand(rand.New(rand.NewSource(seed))),
		playback.WithLogger(l),
	)
	err = p.PlayFrom(ctx, from, func(f playback.Frame) error {
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		return ws.WriteMessage(websocket.TextMessage, b)
	})
	if err != nil {
		l.Info("playback_aborted", "err", err)
		return
	}
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "playback done"),
		time.Now().Add(writeWait))
	l.Info("playback_done")
}
