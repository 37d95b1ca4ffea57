package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/heyjunin/maaw/pkg/debugger"
	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/notify"
	"github.com/heyjunin/maaw/pkg/processor"
)

func (s *Server) handleProcessProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	start := s.now()

	sub, err := s.readSubmission(w, r)
	if err != nil {
		s.debugger.Log(debugger.LevelWarn, "Rejected product submission", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, err, "Failed to process product")
		return
	}
	if !s.roster.IsMember(sub.Token) {
		err := errors.FromCode(errors.AuthError, errors.ErrUnknownMember, sub.Token)
		s.debugger.Log(debugger.LevelWarn, "Rejected product submission", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, err, "")
		return
	}

	s.notifier.Notify(notify.EventProductSubmit, sub.Token, map[string]interface{}{
		"product_count":      len(sub.Images),
		"description_length": len(sub.Text),
		"gps_location":       sub.GPSLocation,
	})

	result, err := s.processor.Process(r.Context(), sub)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.debugger.Log(debugger.LevelError, "Product processing failed", map[string]interface{}{
			"token": sub.Token,
			"error": err.Error(),
		})
		s.notifier.Notify(notify.EventProcessingComplete, sub.Token, map[string]interface{}{
			"processing_time": elapsed.Seconds(),
			"success":         false,
			"error_message":   err.Error(),
		})
		writeError(w, err, "Failed to process product")
		return
	}

	s.debugger.Log(debugger.LevelInfo, "Product processed", map[string]interface{}{
		"token":    sub.Token,
		"images":   result.ImagesProcessed,
		"duration": elapsed.Round(time.Millisecond).String(),
	})
	s.notifier.Notify(notify.EventProcessingComplete, sub.Token, map[string]interface{}{
		"processing_time": elapsed.Seconds(),
		"success":         true,
		"images":          result.ImagesProcessed,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          result.Message,
		"images_processed": result.ImagesProcessed,
		"zip_file":         result.ArchiveBase64(),
		"filename":         result.Filename,
	})
}

func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (processor.Submission, error) {
	if s.cfg.Server.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return processor.Submission{}, errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
	}

	sub := processor.Submission{
		Text:        r.FormValue("text"),
		Token:       strings.TrimSpace(r.FormValue("team_member_token")),
		GPSLocation: r.FormValue("gps_location"),
	}
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return processor.Submission{}, errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return processor.Submission{}, errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
		}
		sub.Images = append(sub.Images, processor.Image{Filename: fh.Filename, Data: data})
	}
	return sub, sub.Validate(s.cfg.Processor.MaxImages)
}
