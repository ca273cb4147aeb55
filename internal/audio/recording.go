// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// recordBitDepth matches the 16-bit capture format.
const recordBitDepth = 16

// Recorder writes 16-bit mono chunks to a WAV file.
type Recorder struct {
	path       string
	outputFile *os.File
	wavEncoder *wav.Encoder
	sampleBuf  *audio.IntBuffer // Reusable buffer for format conversion.
}

// NewRecorder creates path (and its directory) and prepares a WAV encoder.
func NewRecorder(path string, sampleRate, frames int) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create recording directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	return &Recorder{
		path:       path,
		outputFile: file,
		wavEncoder: wav.NewEncoder(file, sampleRate, recordBitDepth, 1, 1),
		sampleBuf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           make([]int, frames),
			SourceBitDepth: recordBitDepth,
		},
	}, nil
}

// Path returns the file being written.
func (r *Recorder) Path() string {
	return r.path
}

// Write appends one chunk.
func (r *Recorder) Write(samples []int16) error {
	if cap(r.sampleBuf.Data) < len(samples) {
		r.sampleBuf.Data = make([]int, len(samples))
	}
	r.sampleBuf.Data = r.sampleBuf.Data[:len(samples)]
	for i, s := range samples {
		r.sampleBuf.Data[i] = int(s)
	}
	return r.wavEncoder.Write(r.sampleBuf)
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	if err := r.wavEncoder.Close(); err != nil {
		r.outputFile.Close()
		return fmt.Errorf("finalize recording: %w", err)
	}
	return r.outputFile.Close()
}

// StartRecording begins writing every consumed chunk to path.
func (p *Pipeline) StartRecording(path string, sampleRate int) error {
	p.recMu.Lock()
	recording := p.recorder != nil
	p.recMu.Unlock()
	if recording {
		return fmt.Errorf("already recording")
	}

	r, err := NewRecorder(path, sampleRate, p.frames)
	if err != nil {
		return err
	}
	if prev := p.attach(r); prev != nil {
		// Lost a race with another StartRecording; keep the newer file.
		return prev.Close()
	}
	return nil
}

// StopRecording finalizes the current recording, if any, and returns its path.
func (p *Pipeline) StopRecording() (string, error) {
	r := p.attach(nil)
	if r == nil {
		return "", nil
	}
	return r.Path(), r.Close()
}
