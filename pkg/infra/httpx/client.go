package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 64
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultMaxResponseBodySize = 16 * 1024 * 1024
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=http_client_mock.go --case=underscore --with-expecter

// Client is the net/http shaped client used by SDK-style integrations.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOptions struct {
	Timeout             time.Duration
	MaxConnsPerHost     int
	MaxResponseBodySize int
	UserAgent           string
}

type ClientOption func(*ClientOptions)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.Timeout = timeout
	}
}

func WithMaxConnsPerHost(n int) ClientOption {
	return func(o *ClientOptions) {
		o.MaxConnsPerHost = n
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(o *ClientOptions) {
		o.UserAgent = userAgent
	}
}

func buildOptions(opts []ClientOption) *ClientOptions {
	options := &ClientOptions{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// NewFastClient returns the shared fasthttp client used by the embedding
// providers.
func NewFastClient(opts ...ClientOption) *fasthttp.Client {
	options := buildOptions(opts)
	return &fasthttp.Client{
		Name:                options.UserAgent,
		MaxConnsPerHost:     options.MaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: options.MaxResponseBodySize,
		ReadTimeout:         options.Timeout,
		WriteTimeout:        options.Timeout,
	}
}

// DoWithContext runs req on client and returns early when ctx is done. The
// request itself keeps running in the background until timeout, so callers
// must not release req or resp until this returns.
func DoWithContext(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clamped := false
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
			clamped = true
		}
	}

	// resp is copied so the caller's buffers are not written after an
	// early return on ctx.Done.
	inflight := fasthttp.AcquireResponse()
	inflightReq := fasthttp.AcquireRequest()
	req.CopyTo(inflightReq)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.DoTimeout(inflightReq, inflight, timeout)
	}()

	select {
	case <-ctx.Done():
		go func() {
			<-errCh
			fasthttp.ReleaseRequest(inflightReq)
			fasthttp.ReleaseResponse(inflight)
		}()
		return ctx.Err()
	case err := <-errCh:
		if err == nil {
			inflight.CopyTo(resp)
		}
		fasthttp.ReleaseRequest(inflightReq)
		fasthttp.ReleaseResponse(inflight)
		if err == nil {
			return nil
		}
		// the client timer and ctx share a deadline and either may fire first
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if clamped && errors.Is(err, fasthttp.ErrTimeout) {
			return context.DeadlineExceeded
		}
		return err
	}
}

type fastHTTPAdapter struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// NewFastHTTPClient adapts a fasthttp client to the net/http Client shape.
func NewFastHTTPClient(opts ...ClientOption) Client {
	options := buildOptions(opts)
	return &fastHTTPAdapter{
		client:  NewFastClient(opts...),
		timeout: options.Timeout,
	}
}

func (c *fastHTTPAdapter) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(fastReq)
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(fastResp)

	fastReq.SetRequestURI(req.URL.String())
	fastReq.Header.SetMethod(req.Method)
	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	}
	for key, values := range req.Header {
		for _, value := range values {
			fastReq.Header.Add(key, value)
		}
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		fastReq.SetBodyRaw(body)
	}

	if err := DoWithContext(req.Context(), c.client, fastReq, fastResp, c.timeout); err != nil {
		return nil, err
	}

	body := append([]byte(nil), fastResp.Body()...)
	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	status := fastResp.StatusCode()
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
