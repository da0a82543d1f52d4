package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jmorganca/ollama/envconfig"
	"github.com/jmorganca/ollama/logutil"
)

const maxBufferSize = 512 * 1000

type Client struct {
	base *url.URL
	http *http.Client
}

func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{base: base, http: http}
}

func ClientFromEnvironment() (*Client, error) {
	base, err := envconfig.Host()
	if err != nil {
		return nil, err
	}

	return NewClient(base, http.DefaultClient), nil
}

type options struct {
	requestBody  io.Reader
	responseFunc func(bts []byte) error
}

func OptionRequestBody(data any) func(*options) {
	bts, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}

	return func(opts *options) {
		opts.requestBody = bytes.NewReader(bts)
	}
}

func OptionResponseFunc(fn func([]byte) error) func(*options) {
	return func(opts *options) {
		opts.responseFunc = fn
	}
}

func (c *Client) stream(ctx context.Context, method, path string, fns ...func(*options)) error {
	var opts options
	for _, fn := range fns {
		fn(&opts)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), opts.requestBody)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/x-ndjson")
	request.Header.Set("X-Request-Id", requestID)

	slog.Debug("stream", "method", method, "path", path, "request_id", requestID)

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		bts, _ := io.ReadAll(response.Body)

		var errorResponse ErrorResponse
		if err := json.Unmarshal(bts, &errorResponse); err != nil {
			errorResponse.Message = string(bytes.TrimSpace(bts))
		}

		return StatusError{
			StatusCode:   response.StatusCode,
			Status:       response.Status,
			ErrorMessage: errorResponse.Message,
		}
	}

	scanner := bufio.NewScanner(response.Body)
	// increase the buffer size to avoid running out of space
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxBufferSize)
	for scanner.Scan() {
		bts := scanner.Bytes()
		if len(bytes.TrimSpace(bts)) == 0 {
			continue
		}

		logutil.Trace("stream", "path", path, "line", string(bts))

		var errorResponse ErrorResponse
		if err := json.Unmarshal(bts, &errorResponse); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}

		if errorResponse.Message != "" {
			return errorResponse
		}

		if opts.responseFunc != nil {
			if err := opts.responseFunc(bts); err != nil {
				return err
			}
		}
	}

	return scanner.Err()
}

type TokenResponseFunc func(TokenResponse) error

func (c *Client) Generate(ctx context.Context, req *GenerateRequest, fn TokenResponseFunc) error {
	return c.stream(ctx, http.MethodPost, "/api/generate",
		OptionRequestBody(req),
		OptionResponseFunc(func(bts []byte) error {
			var resp TokenResponse
			if err := json.Unmarshal(bts, &resp); err != nil {
				return err
			}

			return fn(resp)
		}),
	)
}

type PullProgressFunc func(PullProgress) error

func (c *Client) Pull(ctx context.Context, req *PullRequest, fn PullProgressFunc) error {
	return c.stream(ctx, http.MethodPost, "/api/pull",
		OptionRequestBody(req),
		OptionResponseFunc(func(bts []byte) error {
			var resp PullProgress
			if err := json.Unmarshal(bts, &resp); err != nil {
				return err
			}

			return fn(resp)
		}),
	)
}
