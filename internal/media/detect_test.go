package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		assert.True(t, IsSupportedExt(ext), ext)
	}
	for _, ext := range []string{".aac", ".m4a", ".txt", ""} {
		assert.False(t, IsSupportedExt(ext), ext)
	}
}

func TestSupportedExtsList(t *testing.T) {
	assert.Equal(t, ".flac, .mp3, .ogg, .wav", SupportedExtsList())
}
