package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/heyjunin/maaw/pkg/errors"
)

// Describer rewrites a raw marketplace listing into a product description.
type Describer interface {
	Describe(ctx context.Context, text string) (string, error)
}

// Passthrough returns the text unchanged.
type Passthrough struct{}

func (Passthrough) Describe(_ context.Context, text string) (string, error) {
	return text, nil
}

const (
	// DefaultGeminiEndpoint is the generateContent base URL.
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiModel is the model used to rewrite descriptions.
	DefaultGeminiModel = "gemini-2.0-flash"
)

const describePrompt = `You are a product description writer for a store that buys, inspects and resells used and new gear at honest prices.
You receive unfiltered text copied from marketplaces. Extract the product title, condition, key attributes, price and shipping information.
Ignore seller names, platform names, UI text, HTML, emojis and formatting symbols.
Write, using these exact section labels:
TITLE : an SEO title of 60 to 80 characters
SLUG : a URL-friendly slug based on the title
SHORT DESCRIPTION : at most 500 characters
EXTENDED DESCRIPTION : at most 1000 characters
TAGS : 6 to 8 comma-separated keywords
HASHTAGS : 6 to 8 hashtags
PRICE : 40% off the original price, or "Price on request" when none is given
If shipping is mentioned, write "Ships same day with FedEx".

USER INPUT (text to process):
`

// Gemini rewrites descriptions with the Gemini generateContent API.
type Gemini struct {
	APIKey   string
	Model    string
	Endpoint string
	// Client sends the request. Pass the debugger's instrumented client so
	// the call is recorded.
	Client *http.Client

	parsers fastjson.ParserPool
}

func NewGemini(apiKey string, client *http.Client) *Gemini {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gemini{
		APIKey:   apiKey,
		Model:    DefaultGeminiModel,
		Endpoint: DefaultGeminiEndpoint,
		Client:   client,
	}
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

func (g *Gemini) Describe(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: describePrompt + text}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 1000,
			TopP:            0.8,
			TopK:            40,
		},
	})
	if err != nil {
		return "", errors.WrapCode(err, errors.ProcessingError, errors.ErrDescriptionFailed)
	}

	// The key travels as a header so recorded request URLs never carry it.
	target := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(g.Endpoint, "/"), url.PathEscape(g.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", errors.WrapCode(err, errors.NetworkError, errors.ErrRequestFailed)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", errors.WrapCode(err, errors.NetworkError, errors.ErrRequestFailed)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WrapCode(err, errors.NetworkError, errors.ErrInvalidResponse)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.FromCode(errors.NetworkError, errors.ErrServerUnavailable,
			fmt.Sprintf("status %d: %s", resp.StatusCode, fastjson.GetString(raw, "error", "message")))
	}

	parser := g.parsers.Get()
	defer g.parsers.Put(parser)
	v, err := parser.ParseBytes(raw)
	if err != nil {
		return "", errors.WrapCode(err, errors.NetworkError, errors.ErrInvalidResponse)
	}
	out := strings.TrimSpace(string(v.GetStringBytes("candidates", "0", "content", "parts", "0", "text")))
	if out == "" {
		return "", errors.FromCode(errors.ProcessingError, errors.ErrDescriptionFailed, "empty response")
	}
	return out, nil
}
