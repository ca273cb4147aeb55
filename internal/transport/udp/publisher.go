// SPDX-License-Identifier: MIT
package udp

import (
	"fmt"
	applog "guitartuner/internal/log"
	"guitartuner/internal/tuner"
	"sync"
	"time"
)

// StateSource provides the snapshot to publish. *tuner.Session implements it.
type StateSource interface {
	Snapshot() tuner.State
}

// UDPPublisher periodically packs the current tuner state into a binary
// datagram and sends it with a UDPSender. It runs in a separate goroutine
// managed by Start and Stop.
type UDPPublisher struct {
	sender   *UDPSender
	source   StateSource
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum uint32
	packetBuf   []byte // Reused between packets.
}

// NewUDPPublisher creates a publisher. If interval is invalid (<= 0), it
// defaults to 100ms.
func NewUDPPublisher(interval time.Duration, sender *UDPSender, source StateSource) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}
	if source == nil {
		return nil, fmt.Errorf("UDPPublisher: state source cannot be nil")
	}

	if interval <= 0 {
		interval = 100 * time.Millisecond
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}

	return &UDPPublisher{
		sender:    sender,
		source:    source,
		interval:  interval,
		packetBuf: make([]byte, 0, headerSize+16),
	}, nil
}

// Start begins the periodic publishing process. Subsequent calls are no-ops
// while running.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Local copies keep the goroutine off p.ticker/p.doneChan.
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Infof("UDPPublisher: Publishing every %s", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it to exit.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Infof("UDPPublisher: Stopped after %d packets", p.sequenceNum)
	return nil
}

// publish sends one packet. Only the publisher goroutine calls it.
func (p *UDPPublisher) publish() {
	p.sequenceNum++
	packet := NewPacket(p.sequenceNum, time.Now().UnixNano(), p.source.Snapshot())

	buf, err := packet.AppendBinary(p.packetBuf[:0])
	if err != nil {
		applog.Errorf("UDPPublisher: Error packing state: %v", err)
		return
	}
	p.packetBuf = buf

	if err := p.sender.Send(buf); err == nil {
		applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", p.sequenceNum, len(buf))
	}
}

// Close stops the publisher goroutine.
func (p *UDPPublisher) Close() error {
	return p.Stop()
}

var _ interface{ Close() error } = (*UDPPublisher)(nil)
