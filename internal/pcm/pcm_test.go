// SPDX-License-Identifier: MIT
package pcm

import (
	"guitartuner/pkg/utils"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestDecodeS16LE(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want []float64
	}{
		{"Empty", nil, []float64{}},
		{"Zero", []byte{0x00, 0x00}, []float64{0}},
		{"Max", []byte{0xff, 0x7f}, []float64{32767.0 / 32768}},
		{"Min", []byte{0x00, 0x80}, []float64{-1}},
		{"Odd trailing byte", []byte{0x00, 0x40, 0x12}, []float64{0.5}},
		{"Two samples", []byte{0x00, 0x40, 0x00, 0xc0}, []float64{0.5, -0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeS16LE(nil, tt.data)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecodeS16LEReusesBuffer(t *testing.T) {
	data := utils.EncodePCM16LE(utils.GenerateSineWave(256, 16000, 110, 0.5))
	dst := make([]float64, 0, 256)

	allocs := testing.AllocsPerRun(100, func() {
		dst = DecodeS16LE(dst, data)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations with a large enough buffer, got %.1f", allocs)
	}
	if len(dst) != 256 {
		t.Errorf("decoded %d samples, want 256", len(dst))
	}
}

func TestDecodeRoundTripsHelperEncoding(t *testing.T) {
	in := utils.GenerateSineWave(512, 16000, 196, 0.8)
	out := DecodeS16LE(nil, utils.EncodePCM16LE(in))
	for i := range in {
		if math.Abs(in[i]-out[i]) > 1.0/32768 {
			t.Fatalf("sample %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestInt16ToFloat(t *testing.T) {
	got := Int16ToFloat(nil, []int16{0, 16384, -32768})
	want := []float64{0, 0.5, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFromIntBuffer(t *testing.T) {
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 16000},
		Data:           []int{16384, 1, -16384, 2, 0, 3},
		SourceBitDepth: 16,
	}

	left, err := FromIntBuffer(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.5, -0.5, 0}
	for i := range want {
		if left[i] != want[i] {
			t.Errorf("left[%d] = %v, want %v", i, left[i], want[i])
		}
	}

	if _, err := FromIntBuffer(buf, 2); err == nil {
		t.Error("expected an error for an out of range channel")
	}
	if _, err := FromIntBuffer(&audio.IntBuffer{}, 0); err == nil {
		t.Error("expected an error for a buffer without format")
	}
}

func TestReadWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "low-e.wav")
	samples := utils.ToPCM16(utils.GenerateSineWave(4000, 16000, 82.41, 0.5))

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	encoder := wav.NewEncoder(file, 16000, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}

	clip, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if clip.SampleRate != 16000 {
		t.Errorf("sample rate = %v, want 16000", clip.SampleRate)
	}
	if len(clip.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(clip.Samples), len(samples))
	}
	for i := range samples {
		if want := float64(samples[i]) / 32768; clip.Samples[i] != want {
			t.Fatalf("sample %d = %v, want %v", i, clip.Samples[i], want)
		}
	}

	chunks := clip.Chunks(1024)
	if len(chunks) != 3 {
		t.Errorf("got %d full chunks, want 3", len(chunks))
	}
}

func TestReadWAVErrors(t *testing.T) {
	if _, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "junk.wav")
	if err := os.WriteFile(path, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadWAV(path); err == nil {
		t.Error("expected an error for a non-wav file")
	}
}
