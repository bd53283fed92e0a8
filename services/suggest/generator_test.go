package suggest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient fails every call until failuresLeft hits zero, recording the
// exact (model, key) order of the walk.
type scriptedClient struct {
	failuresLeft int
	err          error
	calls        [][2]string
}

func (c *scriptedClient) Generate(_ context.Context, model, apiKey, _ string) (string, error) {
	c.calls = append(c.calls, [2]string{model, apiKey})
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return "", c.err
	}
	return "ok", nil
}

func TestBuildPoolModelMajorOrder(t *testing.T) {
	pool := buildPool([]string{"m1", "m2"}, []string{"k1", "k2", "k3"})
	require.Len(t, pool, 6)
	want := []attempt{
		{model: "m1", key: "k1", keyIdx: 0},
		{model: "m1", key: "k2", keyIdx: 1},
		{model: "m1", key: "k3", keyIdx: 2},
		{model: "m2", key: "k1", keyIdx: 0},
		{model: "m2", key: "k2", keyIdx: 1},
		{model: "m2", key: "k3", keyIdx: 2},
	}
	assert.Equal(t, want, pool)
}

func TestGenerateFirstOptionSucceeds(t *testing.T) {
	client := &scriptedClient{}
	g := NewGenerator(client, []string{"m1", "m2"})

	text, ok := g.Generate(context.Background(), []string{"k1", "k2"}, "prompt")
	require.True(t, ok)
	assert.Equal(t, "ok", text)
	assert.Equal(t, [][2]string{{"m1", "k1"}}, client.calls, "later options must not be attempted")
}

func TestGenerateAdvancesOnQuotaFailure(t *testing.T) {
	client := &scriptedClient{
		failuresLeft: 3,
		err:          &apiError{status: http.StatusTooManyRequests, message: "quota exceeded"},
	}
	g := NewGenerator(client, []string{"m1", "m2"})

	text, ok := g.Generate(context.Background(), []string{"k1", "k2"}, "prompt")
	require.True(t, ok)
	assert.Equal(t, "ok", text)
	assert.Equal(t, [][2]string{{"m1", "k1"}, {"m1", "k2"}, {"m2", "k1"}, {"m2", "k2"}}, client.calls)
}

func TestGenerateAdvancesOnGenericFailure(t *testing.T) {
	// Non-quota failures advance the pool exactly like quota ones.
	client := &scriptedClient{failuresLeft: 1, err: errors.New("connection reset")}
	g := NewGenerator(client, []string{"m1"})

	text, ok := g.Generate(context.Background(), []string{"k1", "k2"}, "prompt")
	require.True(t, ok)
	assert.Equal(t, "ok", text)
	assert.Len(t, client.calls, 2)
}

func TestGenerateExhaustedPoolReturnsNoResult(t *testing.T) {
	client := &scriptedClient{failuresLeft: 100, err: errors.New("boom")}
	g := NewGenerator(client, []string{"m1", "m2"})

	text, ok := g.Generate(context.Background(), []string{"k1"}, "prompt")
	assert.False(t, ok)
	assert.Empty(t, text)
	assert.Len(t, client.calls, 2, "every pool option tried exactly once")
}

func TestNewGeneratorDefaultsModelPool(t *testing.T) {
	g := NewGenerator(&scriptedClient{}, nil)
	assert.Equal(t, DefaultModels, g.models)
}
