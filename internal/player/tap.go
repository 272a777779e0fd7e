package player

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

// tapReader sits between the decoder and oto. It tracks the byte position
// handed to the audio device and mirrors every chunk, downmixed to mono, into
// a sample ring for analysis.
type tapReader struct {
	src      io.Reader
	ring     *analysis.SampleRing
	channels int

	mu   sync.Mutex
	pos  int64
	mono []float64
	odd  []byte // partial frame carried to the next Read
}

func newTapReader(src io.Reader, ring *analysis.SampleRing, channels int) *tapReader {
	return &tapReader{src: src, ring: ring, channels: max(channels, 1)}
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	t.mu.Lock()
	t.pos += int64(n)
	if t.ring != nil && n > 0 {
		t.feed(p[:n])
	}
	t.mu.Unlock()
	return n, err
}

// feed converts 16-bit LE interleaved PCM to mono floats. Callers hold mu.
func (t *tapReader) feed(chunk []byte) {
	frame := 2 * t.channels
	if len(t.odd) > 0 {
		chunk = append(t.odd, chunk...)
		t.odd = nil
	}
	frames := len(chunk) / frame
	if rem := chunk[frames*frame:]; len(rem) > 0 {
		t.odd = append([]byte(nil), rem...)
	}
	if frames == 0 {
		return
	}

	if cap(t.mono) < frames {
		t.mono = make([]float64, frames)
	}
	mono := t.mono[:frames]
	for i := range mono {
		sum := 0
		for ch := range t.channels {
			off := i*frame + ch*2
			sum += int(int16(binary.LittleEndian.Uint16(chunk[off:])))
		}
		mono[i] = float64(sum) / float64(t.channels) / 32768
	}
	t.ring.Write(mono)
}

func (t *tapReader) Pos() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

// SetPos records a seek and drops buffered analysis samples.
func (t *tapReader) SetPos(pos int64) {
	t.mu.Lock()
	t.pos = pos
	t.odd = nil
	if t.ring != nil {
		t.ring.Clear()
	}
	t.mu.Unlock()
}
