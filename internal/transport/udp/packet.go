// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"guitartuner/internal/tuner"
	"math"
)

/*
UDP Packet Structure (BigEndian)

+--------------------------------------------------------------------------+
| Field           | Data Type | Size (Bytes) | Description                  |
|-----------------|-----------|--------------|------------------------------|
| Sequence Number | uint32    | 4            | Monotonically increasing     |
| Timestamp       | int64     | 8            | Nanoseconds since epoch      |
| Flags           | uint8     | 1            | bit0 active, bit1 has reading|
| Cents           | int16     | 2            | Deviation from target        |
| Frequency       | float32   | 4            | Smoothed Hz, 0 if no reading |
| Target Length   | uint8     | 1            | T                            |
| Target          | []byte    | T            | Target note, e.g. "G#"       |
| Note Length     | uint8     | 1            | N                            |
| Note            | []byte    | N            | Closest string, e.g. "E"     |
+--------------------------------------------------------------------------+
*/

const (
	FlagActive     uint8 = 1 << 0
	FlagHasReading uint8 = 1 << 1

	headerSize = 4 + 8 + 1 + 2 + 4
	maxNameLen = math.MaxUint8
)

var errShortPacket = errors.New("udp: packet too short")

// Packet is the decoded form of one snapshot datagram.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	Flags     uint8
	Cents     int16
	Frequency float32
	Target    string
	Note      string
}

// NewPacket builds the packet for state s.
func NewPacket(seq uint32, timestamp int64, s tuner.State) Packet {
	p := Packet{
		Sequence:  seq,
		Timestamp: timestamp,
		Target:    s.Target,
	}
	if s.Active {
		p.Flags |= FlagActive
	}
	if r := s.Reading; r != nil {
		p.Flags |= FlagHasReading
		p.Cents = clampInt16(r.Cents)
		p.Frequency = float32(r.Frequency)
		p.Note = r.Note
	}
	return p
}

// AppendBinary appends the wire form of p to dst.
func (p Packet) AppendBinary(dst []byte) ([]byte, error) {
	if len(p.Target) > maxNameLen || len(p.Note) > maxNameLen {
		return dst, fmt.Errorf("udp: name longer than %d bytes", maxNameLen)
	}
	dst = binary.BigEndian.AppendUint32(dst, p.Sequence)
	dst = binary.BigEndian.AppendUint64(dst, uint64(p.Timestamp))
	dst = append(dst, p.Flags)
	dst = binary.BigEndian.AppendUint16(dst, uint16(p.Cents))
	dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(p.Frequency))
	dst = append(dst, uint8(len(p.Target)))
	dst = append(dst, p.Target...)
	dst = append(dst, uint8(len(p.Note)))
	dst = append(dst, p.Note...)
	return dst, nil
}

// DecodePacket parses a datagram produced by AppendBinary.
func DecodePacket(data []byte) (Packet, error) {
	if len(data) < headerSize+2 {
		return Packet{}, errShortPacket
	}
	p := Packet{
		Sequence:  binary.BigEndian.Uint32(data[0:]),
		Timestamp: int64(binary.BigEndian.Uint64(data[4:])),
		Flags:     data[12],
		Cents:     int16(binary.BigEndian.Uint16(data[13:])),
		Frequency: math.Float32frombits(binary.BigEndian.Uint32(data[15:])),
	}

	rest := data[headerSize:]
	var err error
	if p.Target, rest, err = readName(rest); err != nil {
		return Packet{}, err
	}
	if p.Note, _, err = readName(rest); err != nil {
		return Packet{}, err
	}
	return p, nil
}

func readName(b []byte) (string, []byte, error) {
	if len(b) < 1 {
		return "", nil, errShortPacket
	}
	n := int(b[0])
	if len(b) < 1+n {
		return "", nil, errShortPacket
	}
	return string(b[1 : 1+n]), b[1+n:], nil
}

func clampInt16(v int) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, v)))
}
