// SPDX-License-Identifier: MIT
package pcm

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// Clip is a decoded mono recording.
type Clip struct {
	Samples    []float64
	SampleRate float64
}

// ReadWAV loads the first channel of a PCM WAV file.
func ReadWAV(path string) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	samples, err := FromIntBuffer(buf, 0)
	if err != nil {
		return nil, err
	}

	return &Clip{
		Samples:    samples,
		SampleRate: float64(decoder.SampleRate),
	}, nil
}

// Chunks splits the clip into consecutive frames of size samples. The last
// partial chunk is dropped.
func (c *Clip) Chunks(size int) [][]float64 {
	if size <= 0 {
		return nil
	}
	chunks := make([][]float64, 0, len(c.Samples)/size)
	for start := 0; start+size <= len(c.Samples); start += size {
		chunks = append(chunks, c.Samples[start:start+size])
	}
	return chunks
}
