// Package deepl implements translation.Provider against the DeepL REST API.
package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SimonOfHH/deepl-helper/internal/translation"
)

const (
	// ProAPIURL and FreeAPIURL are the DeepL API hosts. Free keys end in ":fx".
	ProAPIURL  = "https://api.deepl.com"
	FreeAPIURL = "https://api-free.deepl.com"

	providerName = "deepl"
)

// Client talks to the DeepL v2 API
type Client struct {
	authKey    string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a DeepL client for authKey.
func NewClient(authKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(authKey) == "" {
		return nil, fmt.Errorf("DeepL auth key is required")
	}

	c := &Client{
		authKey:    authKey,
		baseURL:    ServerURL(authKey),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ServerURL returns the API host matching the key type.
func ServerURL(authKey string) string {
	if strings.HasSuffix(authKey, ":fx") {
		return FreeAPIURL
	}
	return ProAPIURL
}

// Name returns the provider name
func (c *Client) Name() string {
	return providerName
}

type translateRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
	Formality  string   `json:"formality,omitempty"`
	GlossaryID string   `json:"glossary_id,omitempty"`
}

type translateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// TranslateBatch translates texts in a single request
func (c *Client) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts translation.Options) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := translateRequest{
		Text:       texts,
		SourceLang: sourceLanguageCode(sourceLang),
		TargetLang: targetLanguageCode(targetLang),
		Formality:  string(opts.Formality),
		GlossaryID: opts.GlossaryID,
	}

	var resp translateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v2/translate", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Translations) != len(texts) {
		return nil, &translation.ProviderError{
			Provider: providerName,
			Message:  fmt.Sprintf("got %d translations, expected %d", len(resp.Translations), len(texts)),
		}
	}

	out := make([]string, len(resp.Translations))
	for i, tr := range resp.Translations {
		out[i] = tr.Text
	}
	return out, nil
}

type glossaryInfo struct {
	GlossaryID   string    `json:"glossary_id"`
	Name         string    `json:"name"`
	Ready        bool      `json:"ready"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	CreationTime time.Time `json:"creation_time"`
	EntryCount   int       `json:"entry_count"`
}

func (g glossaryInfo) remote() translation.RemoteGlossary {
	return translation.RemoteGlossary{
		ID:         g.GlossaryID,
		Name:       g.Name,
		SourceLang: g.SourceLang,
		TargetLang: g.TargetLang,
		EntryCount: g.EntryCount,
		Ready:      g.Ready,
		CreatedAt:  g.CreationTime,
	}
}

// ListGlossaries lists all glossaries of the account
func (c *Client) ListGlossaries(ctx context.Context) ([]translation.RemoteGlossary, error) {
	var resp struct {
		Glossaries []glossaryInfo `json:"glossaries"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v2/glossaries", nil, &resp); err != nil {
		return nil, err
	}

	out := make([]translation.RemoteGlossary, 0, len(resp.Glossaries))
	for _, g := range resp.Glossaries {
		out = append(out, g.remote())
	}
	return out, nil
}

type createGlossaryRequest struct {
	Name          string `json:"name"`
	SourceLang    string `json:"source_lang"`
	TargetLang    string `json:"target_lang"`
	Entries       string `json:"entries"`
	EntriesFormat string `json:"entries_format"`
}

// CreateGlossary uploads entries as a new glossary
func (c *Client) CreateGlossary(ctx context.Context, entries translation.Glossary, name, sourceLang, targetLang string) (translation.RemoteGlossary, error) {
	req := createGlossaryRequest{
		Name:          name,
		SourceLang:    strings.ToLower(baseLanguage(sourceLang)),
		TargetLang:    strings.ToLower(baseLanguage(targetLang)),
		Entries:       EncodeTSV(entries),
		EntriesFormat: "tsv",
	}

	var resp glossaryInfo
	if err := c.doJSON(ctx, http.MethodPost, "/v2/glossaries", req, &resp); err != nil {
		return translation.RemoteGlossary{}, err
	}
	return resp.remote(), nil
}

// DeleteGlossary deletes a glossary
func (c *Client) DeleteGlossary(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v2/glossaries/"+url.PathEscape(id), nil, nil)
}

// GlossaryEntries downloads the entries of a glossary
func (c *Client) GlossaryEntries(ctx context.Context, id string) (translation.Glossary, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v2/glossaries/"+url.PathEscape(id)+"/entries", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/tab-separated-values")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return DecodeTSV(string(body)), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &translation.ProviderError{Provider: providerName, Message: "malformed response", Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.authKey)
	req.Header.Set("User-Agent", "deepl-helper")
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &translation.ProviderError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &translation.ProviderError{Provider: providerName, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &translation.ProviderError{
			Provider: providerName,
			Status:   resp.StatusCode,
			Message:  errorMessage(resp.StatusCode, data),
		}
	}
	return data, nil
}

// errorMessage extracts DeepL's {"message": ...} body, falling back to the
// status text. 456 is DeepL's quota-exceeded status.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		if payload.Detail != "" {
			return payload.Message + ": " + payload.Detail
		}
		return payload.Message
	}
	if status == 456 {
		return "quota exceeded"
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return strings.TrimSpace(string(body))
}
