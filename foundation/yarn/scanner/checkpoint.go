// File: checkpoint.go
// Title: Tracker Checkpoint Codec
// Description: Encodes and decodes the tracker state as a length-prefixed
//              sequence of little-endian uint32 words.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial implementation

package scanner

import (
	"encoding/binary"

	mdwerror "github.com/msto63/yarnscan/foundation/core/error"
)

const (
	// SerializationBufferSize is the checkpoint capacity a tree-sitter host
	// provides
	SerializationBufferSize = 1024

	wordSize   = 4
	headerSize = 2 * wordSize
)

// Checkpoint is a serialized tracker state
type Checkpoint []byte

// State is the decoded form of a checkpoint
type State struct {
	Levels  []uint32 `json:"levels" yaml:"levels"`
	Pending uint32   `json:"pending" yaml:"pending"`
}

// Depth returns the number of open levels
func (st State) Depth() int {
	return len(st.Levels)
}

// EncodedSize returns the number of bytes the state occupies when encoded
func (st State) EncodedSize() int {
	return headerSize + wordSize*len(st.Levels)
}

// MaxLevels returns how many open levels fit into a buffer of the given
// capacity
func MaxLevels(capacity int) int {
	if capacity < headerSize {
		return -1
	}
	return (capacity - headerSize) / wordSize
}

// encodeInto writes the state into buf and returns the bytes written, or 0
// when buf is too small
func encodeInto(buf []byte, levels []uint32, pending uint32) int {
	size := headerSize + wordSize*len(levels)
	if size > len(buf) {
		return 0
	}

	binary.LittleEndian.PutUint32(buf[0:], uint32(len(levels)))
	binary.LittleEndian.PutUint32(buf[wordSize:], pending)
	pos := headerSize
	for _, level := range levels {
		binary.LittleEndian.PutUint32(buf[pos:], level)
		pos += wordSize
	}
	return pos
}

// EncodeCheckpoint encodes a state, failing with CodeCheckpointOverflow when
// it does not fit into capacity bytes
func EncodeCheckpoint(st State, capacity int) (Checkpoint, error) {
	buf := make([]byte, st.EncodedSize())
	if st.EncodedSize() > capacity || encodeInto(buf, st.Levels, st.Pending) == 0 {
		return nil, mdwerror.New("checkpoint exceeds buffer capacity").
			WithCode(mdwerror.CodeCheckpointOverflow).
			WithOperation("EncodeCheckpoint").
			WithDetail("size", st.EncodedSize()).
			WithDetail("capacity", capacity)
	}
	return buf, nil
}

// DecodeCheckpoint decodes a checkpoint. An empty checkpoint decodes to the
// initial state. Truncated buffers, trailing bytes and levels that are not
// strictly increasing fail with CodeCheckpointCorrupt.
func DecodeCheckpoint(data []byte) (State, error) {
	if len(data) == 0 {
		return State{}, nil
	}
	if len(data) < headerSize {
		return State{}, corrupt("checkpoint shorter than header", len(data))
	}

	count := binary.LittleEndian.Uint32(data[0:])
	pending := binary.LittleEndian.Uint32(data[wordSize:])

	want := uint64(headerSize) + uint64(wordSize)*uint64(count)
	if uint64(len(data)) != want {
		return State{}, corrupt("checkpoint length does not match level count", len(data)).
			WithDetail("levels", count)
	}

	levels := make([]uint32, count)
	pos := headerSize
	for i := range levels {
		levels[i] = binary.LittleEndian.Uint32(data[pos:])
		if i > 0 && levels[i] <= levels[i-1] {
			return State{}, corrupt("checkpoint levels are not strictly increasing", len(data)).
				WithDetail("index", i)
		}
		pos += wordSize
	}

	return State{Levels: levels, Pending: pending}, nil
}

func corrupt(message string, length int) *mdwerror.Error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeCheckpointCorrupt).
		WithOperation("DecodeCheckpoint").
		WithDetail("length", length)
}
