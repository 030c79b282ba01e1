package openai

import (
	"context"
	"encoding/json"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/asifkhuda/turing/pkg/domain/embedding"
	"github.com/asifkhuda/turing/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestService(t *testing.T, maxFailures uint32, handler fasthttp.RequestHandler) embedding.Creator {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = server.Shutdown() })

	client := httpx.NewFastClient(httpx.WithTimeout(time.Second))
	client.Dial = func(string) (net.Conn, error) { return ln.Dial() }

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	breaker := httpx.NewCircuitBreaker(httpx.BreakerSettings{Name: "openai", Timeout: time.Minute, MaxFailures: maxFailures})
	return NewOpenAIEmbeddingService(client, breaker, logger)
}

func testConfig() *embedding.Config {
	return &embedding.Config{
		Provider:    "openai",
		Model:       "text-embedding-3-small",
		BaseURL:     "http://openai.local/v1",
		Normalize:   true,
		Credentials: embedding.Credentials{ApiKey: "sk-test"},
	}
}

func TestGenerate_Success(t *testing.T) {
	svc := newTestService(t, 5, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/v1/embeddings", string(ctx.Path()))
		assert.Equal(t, "Bearer sk-test", string(ctx.Request.Header.Peek("Authorization")))

		var req embeddingRequest
		assert.NoError(t, json.Unmarshal(ctx.PostBody(), &req))
		assert.Equal(t, "text-embedding-3-small", req.Model)
		assert.Equal(t, "hello", req.Input)

		ctx.SetBodyString(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0,3,4]}]}`)
	})

	emb, err := svc.Generate(context.Background(), "hello", "text-embedding-3-small", testConfig())
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.6, 0.8}, emb.Value, 1e-9)
}

func TestGenerate_BreakerOpensOnRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	svc := newTestService(t, 2, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		_, err := svc.Generate(context.Background(), "q", "m", testConfig())
		assert.ErrorIs(t, err, embedding.ErrProviderNonOKResponse)
	}

	_, err := svc.Generate(context.Background(), "q", "m", testConfig())
	assert.ErrorIs(t, err, httpx.ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerate_CanceledContext(t *testing.T) {
	svc := newTestService(t, 5, func(ctx *fasthttp.RequestCtx) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, "q", "m", testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
