package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

var (
	// ErrUnsupported reports a file extension with no decoder.
	ErrUnsupported = errors.New("unsupported format")
	// ErrInvalidWAV reports a file that is not a readable WAV.
	ErrInvalidWAV = errors.New("invalid WAV file")
)

// audioDecoder produces 16-bit LE interleaved PCM.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder by file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupported)
	}
}

// pcmCursor holds the shared byte bookkeeping for decoders that produce PCM
// in chunks.
type pcmCursor struct {
	pending    []byte
	pos        int64
	totalBytes int64
	channels   int
}

// drain copies leftover bytes from the previous chunk.
func (c *pcmCursor) drain(p []byte) (int, bool) {
	if len(c.pending) == 0 {
		return 0, false
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	c.pos += int64(n)
	return n, true
}

// emit copies a freshly decoded chunk, keeping what does not fit.
func (c *pcmCursor) emit(p, raw []byte) int {
	n := copy(p, raw)
	if n < len(raw) {
		c.pending = raw[n:]
	}
	c.pos += int64(n)
	return n
}

// target resolves a seek to a clamped byte offset and its sample frame.
func (c *pcmCursor) target(offset int64, whence int) (int64, int64) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = c.pos + offset
	case io.SeekEnd:
		pos = c.totalBytes + offset
	}
	pos = min(max(pos, 0), c.totalBytes)
	return pos, pos / (int64(c.channels) * 2)
}

func (c *pcmCursor) moved(pos int64) {
	c.pending = nil
	c.pos = pos
}

func clamp16(v int) int16 {
	return int16(min(max(v, -32768), 32767))
}

// --- MP3 ---

// go-mp3 always yields 16-bit stereo.
type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }

func (d *mp3Decoder) Seek(offset int64, whence int) (int64, error) {
	return d.dec.Seek(offset, whence)
}

func (d *mp3Decoder) Length() int64     { return d.dec.Length() }
func (d *mp3Decoder) SampleRate() int   { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV ---

// memDecoder serves a fully decoded WAV from memory.
type memDecoder struct {
	*bytes.Reader
	sampleRate int
	channels   int
}

func newWAVDecoder(f *os.File) (*memDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	depth := int(dec.BitDepth)
	raw := make([]byte, len(buf.Data)*2)
	for i, s := range buf.Data {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(wavTo16(s, depth)))
	}

	return &memDecoder{
		Reader:     bytes.NewReader(raw),
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
	}, nil
}

// wavTo16 rescales a decoded WAV sample. 8-bit WAV is unsigned.
func wavTo16(s, depth int) int16 {
	switch depth {
	case 8:
		return clamp16((s - 128) << 8)
	case 24:
		return clamp16(s >> 8)
	case 32:
		return clamp16(s >> 16)
	}
	return clamp16(s)
}

func (d *memDecoder) Length() int64     { return d.Size() }
func (d *memDecoder) SampleRate() int   { return d.sampleRate }
func (d *memDecoder) ChannelCount() int { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	pcmCursor
	stream     *flac.Stream
	sampleRate int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmCursor: pcmCursor{
			channels:   channels,
			totalBytes: int64(info.NSamples) * int64(channels) * 2,
		},
		stream:     stream,
		sampleRate: int(info.SampleRate),
		bps:        int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := range nSamples {
		for ch := range d.channels {
			s := int(frame.Subframes[ch].Samples[i])
			if d.bps > 16 {
				s >>= d.bps - 16
			} else {
				s <<= 16 - d.bps
			}
			binary.LittleEndian.PutUint16(raw[(i*d.channels+ch)*2:], uint16(clamp16(s)))
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *flacDecoder) Length() int64     { return d.totalBytes }
func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis ---

type oggDecoder struct {
	pcmCursor
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		pcmCursor: pcmCursor{
			channels:   channels,
			totalBytes: reader.Length() * int64(channels) * 2,
		},
		reader: reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if n, ok := d.drain(p); ok {
		return n, nil
	}

	want := max(len(p)/2, d.channels)
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	n, err := d.reader.Read(d.samples[:want])
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}

	raw := make([]byte, n*2)
	for i, s := range d.samples[:n] {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(clamp16(int(s*32767))))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

func (d *oggDecoder) Length() int64     { return d.totalBytes }
func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.channels }
