// SPDX-License-Identifier: MIT
package utils

import (
	"encoding/binary"
	"math"
	"testing"
)

const (
	testSize       = 1024
	testSampleRate = 16000
)

func TestGenerateSineWave(t *testing.T) {
	wave := GenerateSineWave(testSize, testSampleRate, 1000, 0.5)
	if len(wave) != testSize {
		t.Fatalf("length = %d, want %d", len(wave), testSize)
	}
	if wave[0] != 0 {
		t.Errorf("sine should start at zero, got %f", wave[0])
	}
	// 1 kHz at 16 kHz has a period of 16 samples, so sample 4 is the crest.
	if math.Abs(wave[4]-0.5) > 1e-9 {
		t.Errorf("wave[4] = %f, want 0.5", wave[4])
	}
	for i, v := range wave {
		if math.Abs(v) > 0.5+1e-9 {
			t.Fatalf("sample %d exceeds amplitude: %f", i, v)
		}
	}
}

func TestGenerateHarmonicWave(t *testing.T) {
	single := GenerateHarmonicWave(testSize, testSampleRate, 110, 0.7)
	sine := GenerateSineWave(testSize, testSampleRate, 110, 0.7)
	for i := range single {
		if math.Abs(single[i]-sine[i]) > 1e-12 {
			t.Fatalf("single harmonic differs from sine at %d: %f vs %f", i, single[i], sine[i])
		}
	}
}

func TestGenerateNoiseDeterministic(t *testing.T) {
	a := GenerateNoise(testSize, 0.3, 42)
	b := GenerateNoise(testSize, 0.3, 42)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise with equal seeds differs at %d", i)
		}
		if math.Abs(a[i]) > 0.3 {
			t.Fatalf("noise sample %d out of range: %f", i, a[i])
		}
	}
}

func TestToPCM16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16384},
		{-1, -32768},
		{1, 32767}, // Clipped.
		{-2, -32768},
	}
	for _, tt := range tests {
		if got := ToPCM16([]float64{tt.in})[0]; got != tt.want {
			t.Errorf("ToPCM16(%f) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodePCM16LE(t *testing.T) {
	buf := EncodePCM16LE([]float64{0.5, -0.5})
	if len(buf) != 4 {
		t.Fatalf("length = %d, want 4", len(buf))
	}
	if got := int16(binary.LittleEndian.Uint16(buf[0:])); got != 16384 {
		t.Errorf("first sample = %d, want 16384", got)
	}
	if got := int16(binary.LittleEndian.Uint16(buf[2:])); got != -16384 {
		t.Errorf("second sample = %d, want -16384", got)
	}
}

func TestFindPeakIndex(t *testing.T) {
	values := make([]float64, testSize)
	for i := range values {
		values[i] = math.Exp(-0.01 * math.Pow(float64(i-testSize/4), 2))
	}

	tests := []struct {
		name       string
		start, end int
		want       int
	}{
		{"Full range", 0, testSize, testSize / 4},
		{"Clamped bounds", -10, testSize + 10, testSize / 4},
		{"Right of peak", testSize / 2, testSize, testSize / 2},
		{"Empty range", 10, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakIndex(values, tt.start, tt.end); got != tt.want {
				t.Errorf("FindPeakIndex(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}

	if got := FindPeakIndex(nil, 0, 10); got != 0 {
		t.Errorf("FindPeakIndex(nil) = %d, want 0", got)
	}
}
