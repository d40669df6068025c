package mock

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scorePattern = regexp.MustCompile(`^[0-4]:[0-4]$`)

func TestScoreWithinRange(t *testing.T) {
	p := NewWithSeed(1)
	for i := 0; i < 200; i++ {
		data := p.Score("e1")
		assert.Equal(t, "e1", data.EventID)
		assert.Regexp(t, scorePattern, data.CurrentScore)
	}
}

func TestLatencyWithinBounds(t *testing.T) {
	p := NewWithSeed(2)
	for i := 0; i < 200; i++ {
		d := p.Latency()
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 300*time.Millisecond)
	}
}

func TestFetchScoreWithoutLatency(t *testing.T) {
	data, err := NewWithSeed(3).WithoutLatency().FetchScore(context.Background(), "e9")
	require.NoError(t, err)
	assert.Equal(t, "e9", data.EventID)
	assert.Regexp(t, scorePattern, data.CurrentScore)
}

func TestFetchScoreHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().FetchScore(ctx, "e1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSameSeedIsDeterministic(t *testing.T) {
	a, b := NewWithSeed(42), NewWithSeed(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Score("e").CurrentScore, b.Score("e").CurrentScore)
	}
}
