package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Rorical/FolioChat/internal/chaterr"
)

const maxBodyBytes = 1 << 20

// HTTPExchanger speaks the portfolio backend's JSON contract.
type HTTPExchanger struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExchanger(baseURL string, client *http.Client) *HTTPExchanger {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPExchanger{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type replyBody struct {
	Reply *string `json:"reply"`
}

func (h *HTTPExchanger) Exchange(ctx context.Context, endpoint string, payload ChatRequest) (*ChatReply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, chaterr.Unknown("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, chaterr.Unknown("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "FolioChat/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, chaterr.Network(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, chaterr.Network(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, chaterr.Server(resp.StatusCode, parseDetail(respBody))
	}

	var parsed replyBody
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, chaterr.Unknown("malformed reply", err)
	}
	if parsed.Reply == nil {
		return nil, chaterr.Unknown("reply field missing", nil)
	}
	return &ChatReply{Reply: *parsed.Reply}, nil
}

// parseDetail extracts a string "detail" from an error body. Anything else,
// including FastAPI's list-shaped validation details, yields "".
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Health queries GET /health.
func (h *HTTPExchanger) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", nil)
	if err != nil {
		return nil, chaterr.Unknown("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, chaterr.Network(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, chaterr.Network(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, chaterr.Server(resp.StatusCode, parseDetail(respBody))
	}

	var status HealthStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, chaterr.Unknown("malformed health response", err)
	}
	return &status, nil
}
