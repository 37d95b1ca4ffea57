package api

import (
	"io"
	"net"
	"net/http"
	"time"

	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/notify"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidRequestBody), "")
		return
	}

	parser := s.parser.Get()
	defer s.parser.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		writeError(w, errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidRequestBody), "")
		return
	}

	userID := string(v.GetStringBytes("user_id"))
	member, err := s.roster.Authenticate(userID, string(v.GetStringBytes("password")))
	if err != nil {
		s.debugger.Log(debugger.LevelWarn, "Login failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		writeError(w, err, "")
		return
	}

	session := s.sessions.Create(member)
	s.debugger.Log(debugger.LevelInfo, "Login successful", map[string]interface{}{
		"user_id": member.ID,
	})
	s.notifier.Notify(notify.EventLogin, member.ID, map[string]interface{}{
		"user_name":  member.Name,
		"ip_address": clientIP(r),
		"user_agent": r.UserAgent(),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"token":      session.Token,
		"user_id":    member.ID,
		"user_name":  member.Name,
		"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLoginTracking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fail := func(err error) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  "Failed to track login: " + err.Error(),
			"status": "failed",
		})
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		fail(err)
		return
	}
	parser := s.parser.Get()
	defer s.parser.Put(parser)
	v, err := parser.ParseBytes(body)
	if err != nil {
		fail(err)
		return
	}

	field := func(key, fallback string) string {
		if value := string(v.GetStringBytes(key)); value != "" {
			return value
		}
		return fallback
	}
	userID := field("user_id", "unknown")
	userName := field("user_name", "Unknown User")
	ipAddress := field("ip_address", clientIP(r))
	userAgent := field("user_agent", r.UserAgent())

	s.debugger.Log(debugger.LevelInfo, "Login tracked", map[string]interface{}{
		"user_id":    userID,
		"user_name":  userName,
		"ip_address": ipAddress,
	})
	s.notifier.Notify(notify.EventLogin, userID, map[string]interface{}{
		"user_name":  userName,
		"ip_address": ipAddress,
		"user_agent": userAgent,
		"tracked":    true,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "Login tracked successfully",
		"user_id":   userID,
		"user_name": userName,
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
