package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "info")
	require.NoError(t, err)

	log.Info().Str("stream", "bank").Msg("normalized")
	assert.Contains(t, buf.String(), `"stream":"bank"`)
	assert.Contains(t, buf.String(), "normalized")
}

func TestDefaultLevelSuppressesInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewWithWriter(buf, "debug")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	l := FromContext(ctx)
	l.Debug().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContext_Missing(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}
