package debugger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fastjson"

	apperrors "github.com/heyjunin/maaw/pkg/errors"
)

// Action names understood by the debug endpoint.
const (
	ActionTestAPI      = "test_api"
	ActionValidateForm = "validate_form"
	ActionCheckHealth  = "check_health"
)

// TestAPI asks the debug endpoint to echo payload back.
func (d *Debugger) TestAPI(ctx context.Context, payload interface{}) (map[string]interface{}, error) {
	result, err := d.callAction(ctx, ActionTestAPI, payload)
	if err != nil {
		d.Log(LevelError, "API test failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	d.Log(LevelInfo, "API test successful", result)
	return result, nil
}

// ValidateForm asks the debug endpoint which product form fields are
// present and which are missing.
func (d *Debugger) ValidateForm(ctx context.Context, form map[string]interface{}) (map[string]interface{}, error) {
	result, err := d.callAction(ctx, ActionValidateForm, form)
	if err != nil {
		d.Log(LevelError, "Form validation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	d.Log(LevelInfo, "Form validation complete", result)
	return result, nil
}

// CheckHealth asks the debug endpoint for the server's health summary.
func (d *Debugger) CheckHealth(ctx context.Context) (map[string]interface{}, error) {
	result, err := d.callAction(ctx, ActionCheckHealth, map[string]interface{}{})
	if err != nil {
		d.Log(LevelError, "Health check failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	d.Log(LevelInfo, "Health check complete", result)
	return result, nil
}

func (d *Debugger) callAction(ctx context.Context, action string, data interface{}) (map[string]interface{}, error) {
	if d == nil {
		return nil, apperrors.FromCode(apperrors.SystemError, apperrors.ErrServerUnavailable, "debugger is not running")
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	body, err := json.Marshal(map[string]interface{}{
		"action":    action,
		"data":      data,
		"timestamp": d.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ValidationError, apperrors.ErrInvalidRequestBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.relay.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.NetworkError, apperrors.ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client().Do(req)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.NetworkError, apperrors.ErrRequestFailed)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.NetworkError, apperrors.ErrInvalidResponse)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apperrors.FromCode(apperrors.NetworkError, apperrors.ErrServerUnavailable,
			fmt.Sprintf("%s: status %d: %s", action, resp.StatusCode, fastjson.GetString(raw, "error")))
	}

	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.NetworkError, apperrors.ErrInvalidResponse)
	}
	return result, nil
}
