// Package service talks to the external quad-tree compression service.
//
// The service owns the pixel work: it receives an image as a data URL and
// returns the compressed rendition, the quad-tree it built and its stats.
// Everything it returns is checked here before the rest of the program
// sees it.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ivlev/quadview/internal/logging"
	"github.com/ivlev/quadview/internal/metrics"
	"github.com/ivlev/quadview/internal/palette"
	"github.com/ivlev/quadview/internal/quadtree"
)

// CompressPath is the endpoint appended to the base URL.
const CompressPath = "/api/compress"

// DefaultThreshold is the color-variance threshold the service uses when
// none is given.
const DefaultThreshold = 30

// ErrInvalidTree is returned when the service sends a tree that violates
// the quad-tree invariants.
var ErrInvalidTree = errors.New("service returned an invalid quad-tree")

// Request is the JSON body sent to the service.
type Request struct {
	ImageData string `json:"imageData"`
	Threshold int    `json:"threshold"`
}

// Response is the JSON body returned by the service.
type Response struct {
	CompressedImage string         `json:"compressedImage"`
	QuadTree        *quadtree.Node `json:"quadTree"`
	Stats           metrics.Stats  `json:"stats"`
	Error           string         `json:"error,omitempty"`
}

// Result is a validated service response.
type Result struct {
	Compressed image.Image
	Tree       *quadtree.Node
	Stats      metrics.Stats
}

// Client calls the compression service over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Compress sends img to the service and returns its validated result.
func (c *Client) Compress(ctx context.Context, img image.Image, threshold int) (*Result, error) {
	data, err := EncodeDataURL(img)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}
	body, err := json.Marshal(Request{ImageData: data, Threshold: threshold})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+CompressPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Logger().Debug("compression request", "url", req.URL.String(), "bytes", len(body), "threshold", threshold)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compression service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("compression service: read response: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("compression service: %s (status %d)", msg, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("compression service: decode response: %w", decodeErr)
	}

	return out.result()
}

func (r *Response) result() (*Result, error) {
	if err := CheckTree(r.QuadTree); err != nil {
		return nil, err
	}
	img, err := DecodeDataURL(r.CompressedImage)
	if err != nil {
		return nil, fmt.Errorf("compression service: compressed image: %w", err)
	}
	return &Result{
		Compressed: img,
		Tree:       r.QuadTree,
		Stats:      r.Stats,
	}, nil
}

// CheckTree validates a tree received from the service, including that every
// leaf color can be rendered.
func CheckTree(root *quadtree.Node) error {
	if err := quadtree.Validate(root); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTree, err)
	}
	var bad error
	root.Walk(func(n *quadtree.Node, _ int) {
		if bad != nil || !n.IsLeaf() {
			return
		}
		if _, err := palette.Parse(n.Color); err != nil {
			bad = fmt.Errorf("%w: %w", ErrInvalidTree, err)
		}
	})
	return bad
}
