package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"pragati/internal/httpclient"
	"pragati/internal/logging"
)

// Client is the full backend surface the orchestrator routes to.
type Client interface {
	Query(ctx context.Context, req QueryRequest) (*GenericResponse, error)
	CropRecommendations(ctx context.Context, query string) (*CropRecommendationResponse, error)
	WeatherAdvisory(ctx context.Context, query string) (*DomainTextResponse, error)
	CropYield(ctx context.Context, query string) (*DomainTextResponse, error)
	CreditLoanPolicy(ctx context.Context, query string) (*DomainTextResponse, error)
	MarketPrices(ctx context.Context, query string) (*DomainTextResponse, error)
	PestPrediction(ctx context.Context, query string) (*PestPredictionResponse, error)
	CropHealth(ctx context.Context, query string, image []byte, imageName string) (*CropHealthResponse, error)
	RiskManagement(ctx context.Context, query string) (*RiskManagementResponse, error)
	DeepResearch(ctx context.Context, query string, mode Mode) (*DeepResearchResponse, error)
	Translator
}

// Translator is the narrow translation contract. It is split out so the
// caching decorator can wrap just this call.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (*TranslationResponse, error)
}

// Options tunes the HTTP client.
type Options struct {
	Timeout       time.Duration
	BodyLimit     int64 // max response body bytes; <= 0 means unlimited
	BreakerConfig *httpclient.CircuitBreakerConfig
}

type httpClient struct {
	baseURL   string
	client    *http.Client
	bodyLimit int64
	logger    logging.Logger
}

// NewHTTPClient builds the production backend client. All agent endpoints
// share one circuit-breaker-guarded transport.
func NewHTTPClient(baseURL string, opts Options) Client {
	breakerCfg := httpclient.DefaultCircuitBreakerConfig()
	if opts.BreakerConfig != nil {
		breakerCfg = *opts.BreakerConfig
	}
	logger := logging.NewComponentLogger("BackendClient")
	return &httpClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    httpclient.NewWithCircuitBreakerConfig(opts.Timeout, logger, "agri-backend", breakerCfg),
		bodyLimit: opts.BodyLimit,
		logger:    logger,
	}
}

func (c *httpClient) Query(ctx context.Context, req QueryRequest) (*GenericResponse, error) {
	var out GenericResponse
	if err := c.postJSON(ctx, "/api/v1/agriculture/respond", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type agentQuery struct {
	Query string `json:"query"`
}

func (c *httpClient) CropRecommendations(ctx context.Context, query string) (*CropRecommendationResponse, error) {
	var out CropRecommendationResponse
	if err := c.postJSON(ctx, "/api/v1/agents/crop-recommendations", agentQuery{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) WeatherAdvisory(ctx context.Context, query string) (*DomainTextResponse, error) {
	return c.domainText(ctx, "/api/v1/agents/weather-advisory", query)
}

func (c *httpClient) CropYield(ctx context.Context, query string) (*DomainTextResponse, error) {
	return c.domainText(ctx, "/api/v1/agents/crop-yield", query)
}

func (c *httpClient) CreditLoanPolicy(ctx context.Context, query string) (*DomainTextResponse, error) {
	return c.domainText(ctx, "/api/v1/agents/credit-loan-policy", query)
}

func (c *httpClient) MarketPrices(ctx context.Context, query string) (*DomainTextResponse, error) {
	return c.domainText(ctx, "/api/v1/agents/market-prices", query)
}

func (c *httpClient) domainText(ctx context.Context, path, query string) (*DomainTextResponse, error) {
	var out DomainTextResponse
	if err := c.postJSON(ctx, path, agentQuery{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) PestPrediction(ctx context.Context, query string) (*PestPredictionResponse, error) {
	var out PestPredictionResponse
	if err := c.postJSON(ctx, "/api/v1/agents/pest-prediction", agentQuery{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CropHealth posts multipart form data when an image is attached, plain JSON
// otherwise.
func (c *httpClient) CropHealth(ctx context.Context, query string, image []byte, imageName string) (*CropHealthResponse, error) {
	var out CropHealthResponse
	if len(image) == 0 {
		if err := c.postJSON(ctx, "/api/v1/agents/crop-health", agentQuery{Query: query}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("query", query); err != nil {
		return nil, fmt.Errorf("write multipart field: %w", err)
	}
	part, err := writer.CreateFormFile("image", imageName)
	if err != nil {
		return nil, fmt.Errorf("create multipart file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write multipart file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	if err := c.post(ctx, "/api/v1/agents/crop-health", writer.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) RiskManagement(ctx context.Context, query string) (*RiskManagementResponse, error) {
	var out RiskManagementResponse
	if err := c.postJSON(ctx, "/api/v1/agents/risk-management", agentQuery{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) DeepResearch(ctx context.Context, query string, mode Mode) (*DeepResearchResponse, error) {
	body := struct {
		Query string `json:"query"`
		Mode  Mode   `json:"mode,omitempty"`
	}{Query: query, Mode: mode}
	var out DeepResearchResponse
	if err := c.postJSON(ctx, "/api/v1/agents/deep-research", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Translate(ctx context.Context, text, targetLanguage string) (*TranslationResponse, error) {
	body := struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
	}{Text: text, TargetLanguage: targetLanguage}
	var out TranslationResponse
	if err := c.postJSON(ctx, "/api/v1/translate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(payload), out)
}

func (c *httpClient) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := httpclient.ReadAllWithLimit(resp.Body, c.bodyLimit)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("call %s: unexpected status %d %s", path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
