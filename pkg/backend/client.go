package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// maxResponseSize is the maximum allowed response body size (10MB).
const maxResponseSize = 10 * 1024 * 1024

// Client forwards authorized requests to the document processing backend.
// It is a pass-through proxy: no retries, no response translation.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new backend service client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Upload forwards a set of markup/scan files as multipart form data to
// POST /upload.
func (c *Client) Upload(ctx context.Context, files []File) (*Response, error) {
	return c.postMultipart(ctx, "/upload", files)
}

// UploadMany forwards a batch archive to POST /upload_many.
func (c *Client) UploadMany(ctx context.Context, archive File) (*Response, error) {
	return c.postMultipart(ctx, "/upload_many", []File{archive})
}

// GetStatus forwards a job status query to GET /get_status.
func (c *Client) GetStatus(ctx context.Context, id string) (*Response, error) {
	endpoint := c.baseURL + "/get_status?" + url.Values{"id_": {id}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, "/get_status")
}

// postMultipart assembles the form body and sends it. Parts are written with
// explicit MIME headers because multipart.Writer.CreateFormFile would force
// application/octet-stream, losing the declared content type.
func (c *Client) postMultipart(ctx context.Context, path string, files []File) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
			escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		header.Set("Content-Type", f.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("failed to write form part %s: %w", f.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, path)
}

// do executes the request and wraps the raw answer.
func (c *Client) do(req *http.Request, path string) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("[BACKEND] request completed")

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
