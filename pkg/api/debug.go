package api

import (
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/valyala/fastjson"

	"github.com/heyjunin/maaw/pkg/config"
	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/logger"
)

var availableActions = []string{
	debugger.ActionLogError,
	debugger.ActionTestAPI,
	debugger.ActionValidateForm,
	debugger.ActionCheckHealth,
}

// handleDebug is the collector for relayed error entries and the target of
// the debugger's client actions. It logs through zerolog only: recording
// here would relay the entry back to this endpoint.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.debugStatus(w)
	case http.MethodPost:
		s.debugAction(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Server) debugStatus(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "debug_api_ready",
		"message":   "MAAW Debug API is running",
		"timestamp": s.timestamp(),
		"version":   config.Version,
		"endpoints": map[string]string{
			"POST /api/debug": "Debug API for error tracking and validation",
			"GET /api/debug":  "Debug API status",
		},
		"availableActions": []string{
			"log_error - Log errors from clients",
			"test_api - Test API connectivity",
			"validate_form - Validate form data",
			"check_health - Check system health",
		},
	})
}

func (s *Server) debugError(w http.ResponseWriter, err error) {
	logger.Warn("Debug API error", "api", map[string]interface{}{
		"error": err.Error(),
	})
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"status":    "error",
		"message":   "Debug API error",
		"timestamp": s.timestamp(),
		"error":     err.Error(),
	})
}

func (s *Server) debugAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.debugError(w, err)
		return
	}

	parser := s.parser.Get()
	defer s.parser.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		s.debugError(w, err)
		return
	}

	action := string(v.GetStringBytes("action"))
	data := v.Get("data")
	var raw json.RawMessage
	if data != nil {
		raw = json.RawMessage(data.MarshalTo(nil))
	} else {
		raw = json.RawMessage("null")
	}

	logger.Debug("Debug API request", "api", map[string]interface{}{
		"action":    action,
		"timestamp": string(v.GetStringBytes("timestamp")),
	})

	switch action {
	case debugger.ActionLogError:
		s.collectReport(w, raw)
	case debugger.ActionTestAPI:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "success",
			"message":   "API test successful",
			"timestamp": s.timestamp(),
			"testData":  raw,
		})
	case debugger.ActionValidateForm:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":     "validated",
			"message":    "Form validation complete",
			"timestamp":  s.timestamp(),
			"validation": s.validateForm(data),
		})
	case debugger.ActionCheckHealth:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"message":   "System health check",
			"timestamp": s.timestamp(),
			"system":    s.systemInfo(),
		})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":           "unknown_action",
			"message":          "Unknown debug action",
			"timestamp":        s.timestamp(),
			"availableActions": availableActions,
		})
	}
}

func (s *Server) collectReport(w http.ResponseWriter, raw json.RawMessage) {
	var entry debugger.LogEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.debugError(w, err)
		return
	}
	if !entry.Level.Valid() {
		entry.Level = debugger.LevelError
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.collector.Append(entry)

	logger.Error("Client error reported", "collector", map[string]interface{}{
		"message":   entry.Message,
		"url":       entry.URL,
		"userAgent": entry.UserAgent,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "logged",
		"message":   "Error logged successfully",
		"timestamp": s.timestamp(),
		"error":     raw,
	})
}

// FormValidation is the answer of the validate_form action.
type FormValidation struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (s *Server) validateForm(data *fastjson.Value) FormValidation {
	validation := FormValidation{IsValid: true, Errors: []string{}, Warnings: []string{}}
	fail := func(msg string) {
		validation.Errors = append(validation.Errors, msg)
		validation.IsValid = false
	}

	text := string(data.GetStringBytes("text"))
	token := string(data.GetStringBytes("team_member_token"))
	images := imageCount(data.Get("images"))

	if text == "" {
		fail("Text field is required")
	}
	if token == "" {
		fail("Team member token is required")
	}
	if images == 0 {
		fail("At least one image is required")
	}
	if token != "" && !s.roster.IsMember(token) {
		fail("Invalid team token: " + token)
	}
	if text != "" && len([]rune(text)) < 10 {
		validation.Warnings = append(validation.Warnings, "Text description is very short")
	}
	if images > 10 {
		validation.Warnings = append(validation.Warnings, "Many images uploaded, processing may take longer")
	}
	return validation
}

// imageCount accepts either a list of images or a count.
func imageCount(v *fastjson.Value) int {
	if v == nil {
		return 0
	}
	switch v.Type() {
	case fastjson.TypeArray:
		items, _ := v.Array()
		return len(items)
	case fastjson.TypeNumber:
		return v.GetInt()
	}
	return 0
}

func (s *Server) systemInfo() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return map[string]interface{}{
		"goVersion":  runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		"uptime":     s.now().Sub(s.started).Seconds(),
		"goroutines": runtime.NumGoroutine(),
		"memory": map[string]uint64{
			"alloc":      mem.Alloc,
			"heapAlloc":  mem.HeapAlloc,
			"sys":        mem.Sys,
			"numGC":      uint64(mem.NumGC),
			"totalAlloc": mem.TotalAlloc,
		},
	}
}
