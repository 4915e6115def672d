package quant

import "sync/atomic"

// TimeStamp is a unix timestamp in milliseconds.
type TimeStamp int64

// NextSeq atomically increments and returns the next global sequence number.
// All gateways sharing one sequencer must draw from the same counter.
func NextSeq(seq *uint64) uint64 {
	return atomic.AddUint64(seq, 1)
}
