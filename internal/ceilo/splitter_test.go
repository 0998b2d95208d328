package ceilo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	t.Run("strips CR and trailing newline artifact", func(t *testing.T) {
		lines := splitLines("a\r\n\r\nb\n")
		assert.Equal(t, []string{"a", "", "b"}, lines)
	})

	t.Run("keeps final line without newline", func(t *testing.T) {
		lines := splitLines("a\n\nb")
		assert.Equal(t, []string{"a", "", "b"}, lines)
	})
}

func TestSplitColumns(t *testing.T) {
	t.Run("column k collects line k after every sentinel", func(t *testing.T) {
		lines := []string{"preamble", "", "t1", "h1", "d1", "", "t2", "h2", "d2"}
		cols, err := splitColumns(lines)
		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, []string{"t1", "t2"}, cols[0])
		assert.Equal(t, []string{"h1", "h2"}, cols[1])
		assert.Equal(t, []string{"d1", "d2"}, cols[2])
	})

	t.Run("fewer than two sentinels is malformed", func(t *testing.T) {
		_, err := splitColumns([]string{"", "a", "b"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFile)
	})

	t.Run("truncated trailing block is malformed", func(t *testing.T) {
		lines := []string{"", "t1", "h1", "d1", "", "t2"}
		_, err := splitColumns(lines)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFile)
	})

	t.Run("consecutive sentinels are malformed", func(t *testing.T) {
		_, err := splitColumns([]string{"", "", "a"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFile)
	})
}

func TestDetectModel(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		model     Model
	}{
		{"cl51", "CL01", ModelCL51},
		{"cl31", "CL02", ModelCL31},
		{"ct25k", "CT02", ModelCT25k},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{"", "-2024-04-26 00:00:00", "\x01" + tt.signature + "0210\x02"}
			model, err := detectModel(lines)
			require.NoError(t, err)
			assert.Equal(t, tt.model, model)
		})
	}

	t.Run("unknown signature is fatal, never a default", func(t *testing.T) {
		lines := []string{"", "-2024-04-26 00:00:00", "\x01CL990210\x02"}
		_, err := detectModel(lines)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedModel)
		assert.Contains(t, err.Error(), "CL99")
	})

	t.Run("missing message block", func(t *testing.T) {
		_, err := detectModel([]string{"x", ""})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedFile)
	})
}
