package service

import "sync/atomic"

// Sequencer numbers requests so that only the response to the most recent
// one is applied. Responses carrying an older number are stale.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a new sequence number, superseding all earlier ones.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// IsLatest reports whether seq is the most recently issued number.
func (s *Sequencer) IsLatest(seq uint64) bool {
	return seq != 0 && s.latest.Load() == seq
}
