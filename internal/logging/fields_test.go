package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCommonAppendsServiceAndVersion(t *testing.T) {
	attrs := WithCommon(nil, "tracker", "v1")
	require.Len(t, attrs, 2)
	assert.Equal(t, FieldService, attrs[0].Key)
	assert.Equal(t, "tracker", attrs[0].Value.String())
	assert.Equal(t, FieldVersion, attrs[1].Key)
}

func TestWithCommonSkipsEmpty(t *testing.T) {
	attrs := WithCommon([]slog.Attr{slog.String("existing", "x")}, "", "")
	require.Len(t, attrs, 1)
	assert.Equal(t, "existing", attrs[0].Key)
}
