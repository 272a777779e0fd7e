// Package capture reads live audio from the default input device.
package capture

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/olivier-w/pulsegrid/internal/analysis"
)

// Mic streams mono samples from the default input device into a ring buffer.
type Mic struct {
	stream  *portaudio.Stream
	ring    *analysis.SampleRing
	scratch []float64
}

// Open initializes PortAudio and starts a mono input stream.
func Open(sampleRate float64, framesPerBuffer, history int) (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	m := newMic(framesPerBuffer, history)
	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, m.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	m.stream = stream

	logrus.WithFields(logrus.Fields{
		"function":    "capture.Open",
		"sample_rate": sampleRate,
		"frames":      framesPerBuffer,
	}).Info("Microphone capture started")
	return m, nil
}

func newMic(framesPerBuffer, history int) *Mic {
	return &Mic{
		ring:    analysis.NewSampleRing(history),
		scratch: make([]float64, framesPerBuffer),
	}
}

// callback runs on the PortAudio thread.
func (m *Mic) callback(in []float32) {
	if cap(m.scratch) < len(in) {
		m.scratch = make([]float64, len(in))
	}
	buf := m.scratch[:len(in)]
	for i, s := range in {
		buf[i] = float64(s)
	}
	m.ring.Write(buf)
}

// Samples returns up to n of the most recent captured samples.
func (m *Mic) Samples(n int) []float64 {
	return m.ring.Samples(n)
}

// Close stops the stream and releases PortAudio.
func (m *Mic) Close() error {
	if m.stream == nil {
		return nil
	}
	defer portaudio.Terminate()

	if err := m.stream.Stop(); err != nil {
		m.stream.Close()
		return fmt.Errorf("stopping input stream: %w", err)
	}
	if err := m.stream.Close(); err != nil {
		return fmt.Errorf("closing input stream: %w", err)
	}
	m.stream = nil

	logrus.WithFields(logrus.Fields{
		"function": "Mic.Close",
	}).Info("Microphone capture stopped")
	return nil
}
