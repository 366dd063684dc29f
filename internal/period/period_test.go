package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	assert.Equal(t, Key("2025-09"), Of(time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, Key("2024-01"), Of(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, None, Of(time.Time{}))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Key("0999-03"), Format(999, 3))
	assert.Equal(t, Key("2025-12"), Format(2025, 12))
}

func TestParse(t *testing.T) {
	k, err := Parse("2025-9")
	require.NoError(t, err)
	assert.Equal(t, Key("2025-09"), k)
	assert.False(t, k.IsNone())
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{"", "2025", "2025-13", "abcd-01", "2025-xx"}
	for _, s := range tests {
		_, err := Parse(s)
		assert.Error(t, err, "Parse(%q)", s)
	}
}

func TestLess(t *testing.T) {
	assert.True(t, Less("2025-08", "2025-09"))
	assert.False(t, Less("2025-09", "2025-08"))
	assert.True(t, Less("2025-09", None))
	assert.False(t, Less(None, "2025-09"))
	assert.False(t, Less(None, None))
}
