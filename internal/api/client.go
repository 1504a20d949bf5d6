package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// LLM-backed chat turns can be slow; the backend ranks candidates with
	// multiple model calls before answering.
	chatTimeout = 120 * time.Second
	// PDF retrieval on the backend is bounded at a minute.
	defaultTimeout = 60 * time.Second
)

// APIError is a non-2xx response from the backend. Detail carries the
// structured message the backend nests under its "detail" key, when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// ErrorDetail extracts the most specific diagnostic available from a
// transport failure: the structured detail field when the error is an
// APIError carrying one, the error text otherwise.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "unknown error"
}

// Client talks to the recommendation backend. It holds no mutable state and
// is safe to share between the chat session and any number of concurrent
// download attempts.
type Client struct {
	baseURL    string
	chatHTTP   *http.Client
	directHTTP *http.Client
}

// NewClient returns a client rooted at baseURL (including the path prefix,
// eg. http://localhost:8000/api).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chatHTTP:   &http.Client{Timeout: chatTimeout},
		directHTTP: &http.Client{Timeout: defaultTimeout},
	}
}

// Chat posts one conversation turn and returns the backend's reply.
func (c *Client) Chat(ctx context.Context, request ChatRequest) (*ChatResponse, error) {
	if request.History == nil {
		request.History = []ChatMessage{}
	}
	if request.CurrentPapers == nil {
		request.CurrentPapers = []Paper{}
	}
	var response ChatResponse
	if err := c.postJSON(ctx, c.chatHTTP, "/chat", request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DownloadPaper asks the backend to fetch and store the paper's PDF. The
// full paper record is the request body; the backend derives the filename
// from the id and title.
func (c *Client) DownloadPaper(ctx context.Context, paper Paper) (*DownloadResult, error) {
	var result DownloadResult
	if err := c.postJSON(ctx, c.directHTTP, "/papers/download", paper, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListDownloads returns every PDF the backend has stored so far.
func (c *Client) ListDownloads(ctx context.Context) ([]DownloadedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/downloads", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build downloads request")
	}
	resp, err := c.directHTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "list downloads")
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var files []DownloadedFile
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, errors.Wrap(err, "decode downloads listing")
	}
	return files, nil
}

func (c *Client) postJSON(ctx context.Context, httpClient *http.Client, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "encode %s request", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post %s", path)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var detail struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &detail) == nil {
		apiErr.Detail = detail.Detail
	}
	return apiErr
}
