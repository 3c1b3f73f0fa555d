package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patternfilter/internal/domain"
	"github.com/kailas-cloud/patternfilter/internal/logger"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// StreamPreset handles GET /presets/{id}/stream.
// Each inbound {"records": [...]} frame is answered with the filtered batch.
// The preset is loaded per frame, so edits apply to the next frame.
func (s *Server) StreamPreset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Fail before upgrading so clients get a plain 404.
	if _, err := s.presets.Get(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.String("preset_id", id), zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(maxBodyBytes)

	ctx := r.Context()
	if _, ok := logger.Lookup(ctx); !ok {
		ctx = logger.ContextWithLogger(ctx, s.logger)
	}
	ctx = logger.With(ctx, zap.String("preset_id", id))
	log := logger.FromContext(ctx)
	log.Debug("stream opened")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("stream read failed", zap.Error(err))
			}
			return
		}

		var frame ApplyRequest
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&frame); err != nil {
			if !s.writeFrame(conn, badFrame(err)) {
				return
			}
			continue
		}

		out, err := s.filters.ApplyStreamFrame(ctx, id, frame.Records)
		if err != nil {
			log.Warn("stream frame failed", zap.Error(err))
			if !s.writeFrame(conn, streamErrorFor(err)) {
				return
			}
			if errors.Is(err, domain.ErrNotFound) {
				s.closeStream(conn, "preset deleted")
				return
			}
			continue
		}

		if !s.writeFrame(conn, filterResponse(len(frame.Records), out)) {
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(s.streamWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		s.logger.Warn("stream write failed", zap.Error(err))
		return false
	}
	return true
}

func (s *Server) closeStream(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.streamWriteTimeout))
}
