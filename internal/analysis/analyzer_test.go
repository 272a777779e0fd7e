package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeAverageAndBass(t *testing.T) {
	bins := make([]byte, 20)
	for i := 1; i < 10; i++ {
		bins[i] = 255
	}
	e := Analyze(bins, DefaultBand())
	assert.InDelta(t, 255*9/20.0, e.Avg, 1e-9)
	assert.InDelta(t, 1.0, e.Bass, 1e-9)
}

func TestAnalyzeClampsBandToBuffer(t *testing.T) {
	bins := []byte{0, 51, 102, 153}
	e := Analyze(bins, Band{Lo: 1, Hi: 10})
	assert.InDelta(t, 102.0/255, e.Bass, 1e-9)
}

func TestAnalyzeEmptyWindow(t *testing.T) {
	e := Analyze([]byte{200}, Band{Lo: 1, Hi: 10})
	assert.Equal(t, 200.0, e.Avg)
	assert.Zero(t, e.Bass)

	assert.Equal(t, Energy{}, Analyze(nil, DefaultBand()))
}
