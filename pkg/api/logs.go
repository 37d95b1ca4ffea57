package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heyjunin/maaw/pkg/logger"
)

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		logs := s.debugger.GetLogs()
		reports := s.collector.All()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"logs":    logs,
			"count":   len(logs),
			"reports": reports,
		})
	case http.MethodDelete:
		s.debugger.ClearLogs()
		s.collector.Clear()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "cleared",
		})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	panel := s.debugger.Panel()
	if panel == nil {
		http.Error(w, "debug panel disabled", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := panel.WriteHTML(w); err != nil {
		logger.Warn("Failed to render debug panel", "api", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Server) handlePanelToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	panel := s.debugger.Panel()
	if panel == nil {
		http.Error(w, "debug panel disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"visible": panel.Toggle(),
	})
}

// handleDebugStream mirrors rendered panel items over a websocket.
func (s *Server) handleDebugStream(w http.ResponseWriter, r *http.Request) {
	panel := s.debugger.Panel()
	if panel == nil {
		http.Error(w, "debug panel disabled", http.StatusNotFound)
		return
	}

	items, cancel := panel.Subscribe(0)
	defer cancel()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case item, ok := <-items:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return
				}
				if err := conn.WriteJSON(item); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
