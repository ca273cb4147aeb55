// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"guitartuner/internal/analysis"
	"guitartuner/internal/config"
	"guitartuner/internal/pcm"
	"guitartuner/internal/tuner"
	"io"
)

// replayStats counts chunk outcomes of an offline replay.
type replayStats struct {
	Chunks   int
	Outcomes map[analysis.Outcome]int
	Final    tuner.State
}

func analyzeFile(cfg *config.Config, path string, w io.Writer) error {
	clip, err := pcm.ReadWAV(path)
	if err != nil {
		return err
	}
	if clip.SampleRate != cfg.Audio.SampleRate {
		// The chunk size must still cover the longest lag at the file's rate.
		probe := *cfg
		probe.Audio.SampleRate = clip.SampleRate
		if err := probe.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	session, err := newSession(cfg, clip.SampleRate)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d samples at %.0f Hz, %d per chunk\n",
		path, len(clip.Samples), clip.SampleRate, cfg.Audio.FramesPerBuffer)

	stats := replay(session, clip, cfg.Audio.FramesPerBuffer, w)

	fmt.Fprintf(w, "\n%d chunks: %d detected, %d insufficient signal, %d no peaks, %d out of range\n\n",
		stats.Chunks,
		stats.Outcomes[analysis.Detected],
		stats.Outcomes[analysis.InsufficientSignal],
		stats.Outcomes[analysis.NoPeaks],
		stats.Outcomes[analysis.OutOfRange])
	fmt.Fprintln(w, tuner.FormatDisplay(stats.Final))
	return nil
}

// replay feeds clip through session chunk by chunk and prints a line every
// time the displayed note or deviation changes.
func replay(session *tuner.Session, clip *pcm.Clip, frames int, w io.Writer) replayStats {
	stats := replayStats{Outcomes: make(map[analysis.Outcome]int)}
	var last *tuner.Reading

	for i, chunk := range clip.Chunks(frames) {
		res := session.ProcessSamples(chunk)
		stats.Chunks++
		stats.Outcomes[res.Outcome]++

		r := session.Snapshot().Reading
		if r == nil || (last != nil && r.Note == last.Note && r.Cents == last.Cents) {
			continue
		}
		at := float64(i*frames) / clip.SampleRate
		fmt.Fprintf(w, "%7.2fs  %-2s %-4s %7.2f Hz %+5d cents\n", at, r.Note, r.Pitch, r.Frequency, r.Cents)
		last = r
	}

	stats.Final = session.Snapshot()
	return stats
}
