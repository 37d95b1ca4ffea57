package uploader

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/heyjunin/maaw/pkg/errors"
	"github.com/heyjunin/maaw/pkg/logger"
	"github.com/heyjunin/maaw/pkg/progress"
)

// Options configures a product submission.
type Options struct {
	// Endpoint is the process_product URL.
	Endpoint string
	// Text is the raw product listing.
	Text string
	// Token identifies the submitting team member.
	Token string
	// GPSLocation tags the images; empty means the server default.
	GPSLocation string
	// ImagePaths are the files to upload, in order.
	ImagePaths []string
	// OutputDir receives the returned archive. Defaults to the working directory.
	OutputDir string
	// Timeout bounds the whole request. Defaults to 5 minutes.
	Timeout time.Duration
	// Progress, when set, receives upload progress in bytes.
	Progress progress.Reporter
	// AllowOverride replaces an existing archive with the same name.
	AllowOverride bool
	// Client sends the request. Pass the debugger's instrumented client so
	// the upload is recorded.
	Client *http.Client
}

// Response is the decoded answer of the service.
type Response struct {
	Message         string
	ImagesProcessed int
	Filename        string
	Archive         []byte
}

// Uploader submits a product and stores the archive the service returns.
type Uploader struct {
	client  *http.Client
	options Options
}

func New(options Options) *Uploader {
	if options.Timeout == 0 {
		options.Timeout = 5 * time.Minute
	}
	client := options.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Uploader{
		client:  client,
		options: options,
	}
}

// Validate checks the submission before anything is read or sent.
func (u *Uploader) Validate() error {
	if strings.TrimSpace(u.options.Text) == "" {
		return errors.FromCode(errors.ValidationError, errors.ErrMissingText, "")
	}
	if strings.TrimSpace(u.options.Token) == "" {
		return errors.FromCode(errors.ValidationError, errors.ErrMissingToken, "")
	}
	if len(u.options.ImagePaths) == 0 {
		return errors.FromCode(errors.ValidationError, errors.ErrNoImages, "")
	}
	return nil
}

// Upload sends the submission and writes the returned archive. It returns
// the path of the written archive.
func (u *Uploader) Upload(ctx context.Context) (string, *Response, error) {
	if err := u.Validate(); err != nil {
		return "", nil, err
	}

	body, contentType, err := u.buildForm()
	if err != nil {
		return "", nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.options.Timeout)
	defer cancel()

	var reader io.Reader = bytes.NewReader(body)
	if u.options.Progress != nil {
		u.options.Progress.Start(int64(len(body)))
		reader = progress.NewReader(reader, u.options.Progress, "uploading", "Uploading product")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.options.Endpoint, reader)
	if err != nil {
		return "", nil, errors.WrapCode(err, errors.NetworkError, errors.ErrRequestFailed)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", contentType)

	logger.Info("Submitting product", "uploader", map[string]interface{}{
		"endpoint": u.options.Endpoint,
		"token":    u.options.Token,
		"images":   len(u.options.ImagePaths),
		"bytes":    len(body),
	})

	resp, err := u.client.Do(req)
	if err != nil {
		return "", nil, errors.WrapCode(err, errors.NetworkError, errors.ErrRequestFailed)
	}
	defer resp.Body.Close()
	if u.options.Progress != nil {
		u.options.Progress.Complete()
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, errors.WrapCode(err, errors.NetworkError, errors.ErrInvalidResponse)
	}

	decoded, err := parseResponse(resp.StatusCode, raw)
	if err != nil {
		return "", nil, err
	}

	path, err := u.writeArchive(decoded)
	if err != nil {
		return "", nil, err
	}

	logger.Info("Archive saved", "uploader", map[string]interface{}{
		"path":             path,
		"images_processed": decoded.ImagesProcessed,
	})
	return path, decoded, nil
}

func (u *Uploader) buildForm() ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"text", u.options.Text},
		{"team_member_token", u.options.Token},
	}
	if u.options.GPSLocation != "" {
		fields = append(fields, [2]string{"gps_location", u.options.GPSLocation})
	}
	for _, field := range fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return nil, "", errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
		}
	}

	for _, path := range u.options.ImagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", errors.Wrap(err, errors.SystemError, errors.GetErrorMessage(errors.ErrFileRead), errors.ErrFileRead)
		}
		part, err := mw.CreateFormFile("images", filepath.Base(path))
		if err != nil {
			return nil, "", errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", errors.WrapCode(err, errors.ValidationError, errors.ErrInvalidForm)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func parseResponse(status int, raw []byte) (*Response, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.NetworkError, errors.GetErrorMessage(errors.ErrInvalidResponse),
			errors.ErrInvalidResponse)
	}

	if status != http.StatusOK {
		message := string(v.GetStringBytes("error"))
		if message == "" {
			message = http.StatusText(status)
		}
		errType := errors.NetworkError
		switch status {
		case http.StatusBadRequest:
			errType = errors.ValidationError
		case http.StatusUnauthorized:
			errType = errors.AuthError
		}
		return nil, errors.New(errType, message,
			fmt.Sprintf("status %d, %s", status, v.GetStringBytes("error_type")), errors.ErrServerUnavailable)
	}

	archive, err := base64.StdEncoding.DecodeString(string(v.GetStringBytes("zip_file")))
	if err != nil {
		return nil, errors.WrapCode(err, errors.NetworkError, errors.ErrInvalidResponse)
	}
	filename := filepath.Base(string(v.GetStringBytes("filename")))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, errors.FromCode(errors.NetworkError, errors.ErrInvalidResponse, "missing filename")
	}
	return &Response{
		Message:         string(v.GetStringBytes("message")),
		ImagesProcessed: v.GetInt("images_processed"),
		Filename:        filename,
		Archive:         archive,
	}, nil
}

func (u *Uploader) writeArchive(resp *Response) (string, error) {
	dir := u.options.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, errors.SystemError, "Failed to create output directory", errors.ErrFileWrite)
	}

	path := filepath.Join(dir, resp.Filename)
	if _, err := os.Stat(path); err == nil && !u.options.AllowOverride {
		return "", errors.FromCode(errors.SystemError, errors.ErrFileWrite, path+" already exists")
	}
	if err := os.WriteFile(path, resp.Archive, 0644); err != nil {
		return "", errors.WrapCode(err, errors.SystemError, errors.ErrFileWrite)
	}
	return path, nil
}
