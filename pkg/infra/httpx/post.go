package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// PostJSON sends payload with a bearer token and returns the status code and
// the decoded response body. The body is a copy and outlives the call.
func PostJSON(
	ctx context.Context,
	client *fasthttp.Client,
	url, token string,
	payload []byte,
	timeout time.Duration,
) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAcceptEncoding, "gzip, br, zstd, deflate")
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	req.SetBody(payload)

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := DoWithContext(ctx, client, req, resp, timeout); err != nil {
		return 0, nil, err
	}

	body, _, err := DecodeChain(resp, resp.Body())
	if err != nil {
		return resp.StatusCode(), nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return resp.StatusCode(), append([]byte(nil), body...), nil
}

// Excerpt trims a response body for use in error messages.
func Excerpt(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
