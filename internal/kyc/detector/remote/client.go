// Package remote adapts an HTTP detector service to every detector capability.
// Images travel base64-encoded in JSON bodies; each endpoint answers with a
// score in [0,1] and an optional details object.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"verigate/internal/kyc/detector"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultMaxResponseBytes = 8 << 20
)

// Endpoint paths, relative to the base URL.
const (
	PathFaceMatch = "/face/match"
	PathLiveness  = "/liveness"
	PathOCR       = "/ocr"
	PathDocClass  = "/doc/class"
	PathPortrait  = "/portrait"
	PathRecognize = "/recognize"
)

// Client calls a detector service over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL          string
	client           *http.Client
	maxResponseBytes int64
}

// New creates a Client. A non-positive timeout uses the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		client:           &http.Client{Timeout: timeout},
		maxResponseBytes: defaultMaxResponseBytes,
	}
}

type faceRequest struct {
	Selfie    []byte `json:"selfie"`
	Reference []byte `json:"reference"`
}

type selfieRequest struct {
	Selfie []byte `json:"selfie"`
}

type documentRequest struct {
	Front []byte `json:"front,omitempty"`
	Back  []byte `json:"back,omitempty"`
}

type imageRequest struct {
	Image []byte `json:"image"`
}

type scoreResponse struct {
	Score   *float64       `json:"score"`
	Details map[string]any `json:"details"`
}

type portraitResponse struct {
	Image  []byte `json:"image"`
	BBox   []int  `json:"bbox"`
	Method string `json:"method"`
	Reason string `json:"reason"`
}

type recognizeResponse struct {
	Text string `json:"text"`
}

func (c *Client) Match(ctx context.Context, selfie, reference []byte) (detector.Result, error) {
	return c.score(ctx, PathFaceMatch, faceRequest{Selfie: selfie, Reference: reference})
}

func (c *Client) ScoreLiveness(ctx context.Context, selfie []byte) (detector.Result, error) {
	return c.score(ctx, PathLiveness, selfieRequest{Selfie: selfie})
}

func (c *Client) ExtractText(ctx context.Context, front, back []byte) (detector.Result, error) {
	return c.score(ctx, PathOCR, documentRequest{Front: front, Back: back})
}

func (c *Client) Classify(ctx context.Context, front, back []byte) (detector.Result, error) {
	return c.score(ctx, PathDocClass, documentRequest{Front: front, Back: back})
}

func (c *Client) ExtractPortrait(ctx context.Context, front []byte) (detector.Portrait, error) {
	var resp portraitResponse
	if err := c.post(ctx, PathPortrait, imageRequest{Image: front}, &resp); err != nil {
		return detector.Portrait{}, err
	}
	return detector.Portrait{Image: resp.Image, BBox: resp.BBox, Method: resp.Method, Reason: resp.Reason}, nil
}

func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	var resp recognizeResponse
	if err := c.post(ctx, PathRecognize, imageRequest{Image: image}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *Client) score(ctx context.Context, path string, body any) (detector.Result, error) {
	var resp scoreResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return detector.Result{}, err
	}
	if resp.Score == nil {
		return detector.Result{}, &Error{Category: ErrorBadData, Endpoint: path, Message: "missing score"}
	}
	if s := *resp.Score; s < 0 || s > 1 || math.IsNaN(s) {
		return detector.Result{}, &Error{Category: ErrorBadData, Endpoint: path, Message: fmt.Sprintf("score %v out of range", s)}
	}
	if resp.Details == nil {
		resp.Details = map[string]any{}
	}
	return detector.Result{Score: *resp.Score, Details: resp.Details}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return transportError(path, err)
	}
	if int64(len(raw)) > c.maxResponseBytes {
		return &Error{Category: ErrorBadData, Endpoint: path, Message: fmt.Sprintf("response exceeded limit (%d bytes)", c.maxResponseBytes)}
	}
	switch {
	case resp.StatusCode >= 500:
		return &Error{Category: ErrorOutage, Endpoint: path, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return &Error{Category: ErrorRejected, Endpoint: path, Message: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Category: ErrorBadData, Endpoint: path, Message: "decode response", Underlying: err}
	}
	return nil
}
