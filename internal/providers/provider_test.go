package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/live-event-tracker/internal/domain/events"
)

func TestFetcherFuncDelegates(t *testing.T) {
	f := FetcherFunc(func(_ context.Context, id string) (events.ScoreData, error) {
		return events.ScoreData{EventID: id, CurrentScore: "3:3"}, nil
	})

	data, err := f.FetchScore(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "3:3", data.CurrentScore)
}

func TestValidateFillsEventID(t *testing.T) {
	data, err := Validate("e1", events.ScoreData{CurrentScore: "1:0"})
	require.NoError(t, err)
	assert.Equal(t, "e1", data.EventID)

	data, err = Validate("e1", events.ScoreData{EventID: "upstream-id", CurrentScore: "1:0"})
	require.NoError(t, err)
	assert.Equal(t, "upstream-id", data.EventID)
}

func TestValidateRejectsEmptyScore(t *testing.T) {
	_, err := Validate("e1", events.ScoreData{EventID: "e1"})
	assert.ErrorIs(t, err, ErrEmptyScore)
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &RateLimitError{StatusCode: 429}
	assert.Equal(t, "upstream rate limited (status=429)", err.Error())
	assert.Equal(t, "slow down", (&RateLimitError{Message: "slow down"}).Error())

	wrapped := errors.Join(errors.New("outer"), err)
	got, ok := AsRateLimitError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 429, got.StatusCode)

	_, ok = AsRateLimitError(errors.New("plain"))
	assert.False(t, ok)
}
