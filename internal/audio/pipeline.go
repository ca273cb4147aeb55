// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"guitartuner/internal/analysis"
	applog "guitartuner/internal/log"
	"guitartuner/internal/pcm"
	"sync"
	"sync/atomic"
)

// Sink consumes normalized chunks one at a time. *tuner.Session is a Sink.
type Sink interface {
	ProcessSamples(samples []float64) analysis.Result
}

// Stats counts chunks that went through the pipeline.
type Stats struct {
	Processed uint64
	Dropped   uint64
}

// Pipeline is a bounded single-consumer queue between the capture callback
// and a Sink. Push never blocks and never allocates: buffers come from a
// fixed pool, and a chunk is dropped when the pool is empty. Run delivers
// chunks to the sink strictly one after another.
type Pipeline struct {
	sink   Sink
	frames int

	chunks chan []int16
	free   chan []int16
	floats []float64 // Owned by the Run goroutine.

	processed atomic.Uint64
	dropped   atomic.Uint64

	recMu    sync.Mutex
	recorder *Recorder
}

// NewPipeline returns a pipeline for chunks of frames samples holding up to
// depth chunks in flight.
func NewPipeline(sink Sink, frames, depth int) *Pipeline {
	depth = max(depth, 1)
	p := &Pipeline{
		sink:   sink,
		frames: frames,
		chunks: make(chan []int16, depth),
		free:   make(chan []int16, depth),
		floats: make([]float64, frames),
	}
	for range depth {
		p.free <- make([]int16, frames)
	}
	return p
}

// Push copies in into a pooled buffer and queues it. It reports false when
// the chunk was dropped because the consumer is behind.
func (p *Pipeline) Push(in []int16) bool {
	var buf []int16
	select {
	case buf = <-p.free:
	default:
		p.dropped.Add(1)
		return false
	}

	n := copy(buf[:cap(buf)], in)
	buf = buf[:n]

	select {
	case p.chunks <- buf:
		return true
	default:
		p.free <- buf
		p.dropped.Add(1)
		return false
	}
}

// Run feeds queued chunks to the sink until ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case buf := <-p.chunks:
			p.consume(buf)
			p.free <- buf
		}
	}
}

func (p *Pipeline) consume(buf []int16) {
	p.floats = pcm.Int16ToFloat(p.floats, buf)
	p.sink.ProcessSamples(p.floats)
	p.processed.Add(1)

	p.recMu.Lock()
	defer p.recMu.Unlock()
	if p.recorder == nil {
		return
	}
	if err := p.recorder.Write(buf); err != nil {
		applog.Errorf("Audio: recording stopped: %v", err)
		if cerr := p.recorder.Close(); cerr != nil {
			applog.Errorf("Audio: closing recording: %v", cerr)
		}
		p.recorder = nil
	}
}

// Stats returns the chunk counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

// attach sets the recorder consumed chunks are written to, returning the
// previous one.
func (p *Pipeline) attach(r *Recorder) *Recorder {
	p.recMu.Lock()
	defer p.recMu.Unlock()
	prev := p.recorder
	p.recorder = r
	return prev
}
