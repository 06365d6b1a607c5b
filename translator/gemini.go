package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/spektr-org/reportes/schema"
	"github.com/spektr-org/reportes/temporal"
)

// ============================================================================
// GEMINI INTERPRETER — Calls Google Gemini for command → FilterSet
// ============================================================================
// The only file in the module that makes external API calls. The client
// sends the vocabulary prompt plus the command and parses the JSON answer;
// it never retries. Chain decides what to do on failure.
// ============================================================================

// Gemini implements Translator using the Gemini generateContent API.
type Gemini struct {
	config   Config
	client   *http.Client
	vocab    schema.Vocabulary
	resolver *temporal.Resolver
}

// GeminiOption configures a Gemini client.
type GeminiOption func(*Gemini)

// WithHTTPClient replaces the HTTP client. Tests point it at httptest.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *Gemini) {
		if c != nil {
			g.client = c
		}
	}
}

// NewGemini creates a Gemini interpreter. Missing config fields take the
// package defaults; an empty API key yields ErrUnavailable on every call.
func NewGemini(cfg Config, vocab schema.Vocabulary, resolver *temporal.Resolver, opts ...GeminiOption) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if resolver == nil {
		resolver = temporal.New()
	}
	g := &Gemini{
		config:   cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		vocab:    vocab,
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Available reports whether the client has credentials.
func (g *Gemini) Available() bool { return g != nil && g.config.APIKey != "" }

// Translate implements Translator.
func (g *Gemini) Translate(ctx context.Context, text, scope string) (*TranslateResult, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	log := zerolog.Ctx(ctx)

	prompt := BuildPrompt(g.vocab, g.resolver.Now(), scope) +
		"\n\nCOMANDO DEL USUARIO: " + text + "\n\nResponde solo con JSON válido:"

	log.Debug().Str("model", g.config.Model).Str("command", truncate(text, 80)).Msg("gemini translate")

	answer, err := g.callGemini(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "gemini request")
	}

	result, err := parseResponse(answer, text, g.resolver, g.vocab)
	if err != nil {
		log.Warn().Err(err).Msg("gemini response rejected")
		return nil, err
	}

	log.Debug().
		Strs("filters", result.Filters.Keys()).
		Float64("confidence", result.Confidence).
		Msg("gemini translated")
	return result, nil
}

// ============================================================================
// GEMINI API CALL
// ============================================================================

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// callGemini sends a prompt and returns the first candidate's text.
func (g *Gemini) callGemini(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		g.config.Endpoint, g.config.Model, g.config.APIKey)

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &generationConfig{Temperature: 0.1, ResponseMIMEType: "application/json"},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// The URL carries the key; *url.Error's cause does not.
		return "", errors.Wrap(errors.Unwrap(err), "http request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("gemini returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", errors.Wrapf(ErrMalformedResponse, "decode envelope: %v", err)
	}
	if geminiResp.Error != nil {
		return "", errors.Newf("gemini error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.Wrap(ErrMalformedResponse, "empty candidates")
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
