package huggingface

import (
	"context"
	"encoding/json"
	"net"
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

const testModel = "sentence-transformers/all-MiniLM-L6-v2"

func newTestService(t *testing.T, handler fasthttp.RequestHandler) embedding.Creator {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = server.Shutdown() })

	client := httpx.NewFastClient(httpx.WithTimeout(time.Second))
	client.Dial = func(string) (net.Conn, error) { return ln.Dial() }

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	breaker := httpx.NewCircuitBreaker(httpx.BreakerSettings{Name: "test", Timeout: time.Minute, MaxFailures: 5})
	return NewHuggingFaceEmbeddingService(client, breaker, logger)
}

func testConfig() *embedding.Config {
	return &embedding.Config{
		Provider:    "huggingface",
		Model:       testModel,
		BaseURL:     "http://hf.local/hf-inference",
		Credentials: embedding.Credentials{ApiKey: "hf_test"},
	}
}

func TestGenerate_BatchOfOne(t *testing.T) {
	svc := newTestService(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/hf-inference/models/"+testModel+"/pipeline/feature-extraction", string(ctx.Path()))
		assert.Equal(t, "Bearer hf_test", string(ctx.Request.Header.Peek("Authorization")))

		var req featureExtractionRequest
		assert.NoError(t, json.Unmarshal(ctx.PostBody(), &req))
		assert.Equal(t, "What did Asif study?", req.Inputs)

		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(`[[0.25, 0.5, 0.75]]`)
	})

	emb, err := svc.Generate(context.Background(), "What did Asif study?", testModel, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, emb.Value)
	assert.Equal(t, testModel, emb.Model)
}

func TestGenerate_NormalizesWhenConfigured(t *testing.T) {
	svc := newTestService(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`[3, 4]`)
	})
	cfg := testConfig()
	cfg.Normalize = true

	emb, err := svc.Generate(context.Background(), "q", testModel, cfg)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, emb.Value, 1e-9)
}

func TestGenerate_NonOKResponse(t *testing.T) {
	svc := newTestService(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		ctx.SetBodyString(`{"error":"Model is currently loading"}`)
	})

	_, err := svc.Generate(context.Background(), "q", testModel, testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrProviderNonOKResponse)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "Model is currently loading")
}

func TestGenerate_UnexpectedShape(t *testing.T) {
	svc := newTestService(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"estimated_time": 20}`)
	})

	_, err := svc.Generate(context.Background(), "q", testModel, testConfig())
	assert.ErrorIs(t, err, embedding.ErrUnexpectedEmbeddingShape)
}

func TestGenerate_MissingCredentials(t *testing.T) {
	called := false
	svc := newTestService(t, func(ctx *fasthttp.RequestCtx) {
		called = true
	})
	cfg := testConfig()
	cfg.Credentials.ApiKey = ""

	_, err := svc.Generate(context.Background(), "q", testModel, cfg)
	assert.ErrorIs(t, err, embedding.ErrMissingCredentials)
	assert.False(t, called)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t,
		"https://router.huggingface.co/hf-inference/models/m/pipeline/feature-extraction",
		endpoint("", "m"),
	)
	assert.Equal(t,
		"http://local/models/m/pipeline/feature-extraction",
		endpoint("http://local/", "m"),
	)
}
