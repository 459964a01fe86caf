package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackmuncher/stm-app/internal/classify"
)

func TestDecodeText_ValidUTF8PassesThrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello, 世界", classify.DecodeText([]byte("hello, 世界")))
}

func TestDecodeText_Windows1252Fallback(t *testing.T) {
	t.Parallel()

	// 0x93/0x94 are Windows-1252 curly quotes; 0x93 alone is invalid UTF-8.
	raw := []byte{0x93, 'h', 'i', 0x94}

	got := classify.DecodeText(raw)

	assert.Equal(t, "“hi”", got)
}

func TestDecodeText_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", classify.DecodeText(nil))
}
