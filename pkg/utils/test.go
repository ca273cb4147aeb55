// SPDX-License-Identifier: MIT
//
// Package utils provides deterministic synthetic signals for exercising the
// pitch detector without an audio device.
package utils

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// GenerateSineWave returns size samples of a sine at frequency with the given
// peak amplitude.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// GenerateHarmonicWave returns a plucked-string like signal: the fundamental
// at amplitudes[0], its second harmonic at amplitudes[1], and so on.
func GenerateHarmonicWave(size int, sampleRate, fundamental float64, amplitudes ...float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		var v float64
		for k, a := range amplitudes {
			v += a * math.Sin(2*math.Pi*fundamental*float64(k+1)*t)
		}
		buffer[i] = v
	}
	return buffer
}

// GenerateNoise returns uniformly distributed noise in [-amplitude, amplitude].
// The same seed always yields the same samples.
func GenerateNoise(size int, amplitude float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	buffer := make([]float64, size)
	for i := range buffer {
		buffer[i] = amplitude * (2*rng.Float64() - 1)
	}
	return buffer
}

// ToPCM16 quantizes normalized samples to signed 16-bit values, clipping at
// full scale.
func ToPCM16(samples []float64) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Round(s * 32768)
		out[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, v)))
	}
	return out
}

// EncodePCM16LE serializes normalized samples as little endian signed 16-bit
// PCM, the wire format audio chunks arrive in.
func EncodePCM16LE(samples []float64) []byte {
	pcm := ToPCM16(samples)
	buf := make([]byte, 2*len(pcm))
	for i, s := range pcm {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

// FindPeakIndex returns the index of the largest value in values[start:end],
// clamping the bounds to the slice.
func FindPeakIndex(values []float64, start, end int) int {
	if len(values) == 0 {
		return 0
	}
	start = max(start, 0)
	end = min(end, len(values))
	if start >= end {
		return start
	}

	peak := start
	for i := start + 1; i < end; i++ {
		if values[i] > values[peak] {
			peak = i
		}
	}
	return peak
}
