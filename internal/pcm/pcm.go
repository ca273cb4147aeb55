// SPDX-License-Identifier: MIT
/*
Package pcm converts raw and file-backed PCM audio into the normalized
float samples the analysis package works on.
*/
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Scale16 is the divisor that maps signed 16-bit samples onto [-1, 1).
const Scale16 = 32768.0

// DecodeS16LE decodes signed 16-bit little-endian samples into dst, growing
// it if needed, and returns the result. A trailing odd byte is ignored.
func DecodeS16LE(dst []float64, data []byte) []float64 {
	n := len(data) / 2
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := range n {
		dst[i] = float64(int16(binary.LittleEndian.Uint16(data[2*i:]))) / Scale16
	}
	return dst
}

// Int16ToFloat normalizes 16-bit samples into dst and returns it.
func Int16ToFloat(dst []float64, samples []int16) []float64 {
	if cap(dst) < len(samples) {
		dst = make([]float64, len(samples))
	}
	dst = dst[:len(samples)]
	for i, s := range samples {
		dst[i] = float64(s) / Scale16
	}
	return dst
}

// FromIntBuffer extracts one channel of buf as normalized floats. Integer
// samples are scaled by the buffer's bit depth; a zero depth is read as 16.
func FromIntBuffer(buf *audio.IntBuffer, channel int) ([]float64, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("pcm: buffer has no format")
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	if channel < 0 || channel >= channels {
		return nil, fmt.Errorf("pcm: channel %d out of range for %d channel buffer", channel, channels)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	scale := math.Exp2(float64(depth - 1))

	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := range frames {
		out[i] = float64(buf.Data[i*channels+channel]) / scale
	}
	return out, nil
}
