package id

import (
	"sync"
	"time"
)

// ID is a 64-bit, lexicographically sortable identifier encoded as
// [48 bits ms_timestamp][16 bits sequence].
type ID uint64

// String returns a fixed-width 16-digit hex string. Byte-wise comparison of
// the strings preserves chronological order.
func (i ID) String() string {
	const hexdigits = "0123456789abcdef"
	var out [16]byte
	v := uint64(i)
	for idx := 15; idx >= 0; idx-- {
		out[idx] = hexdigits[v&0x0f]
		v >>= 4
	}
	return string(out[:])
}

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	mu       sync.Mutex
	lastMs   int64
	sequence uint16
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMs returns current time in milliseconds since Unix epoch.
var NowMs = func() int64 { return time.Now().UnixMilli() }

// Next returns a new ID. If the clock goes backwards, it pins to the last
// seen millisecond and increments the sequence. If the sequence overflows
// within the same millisecond, it waits for the next millisecond.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := NowMs()
	if ms < g.lastMs {
		ms = g.lastMs
	}

	if ms == g.lastMs {
		if g.sequence == 0xffff {
			for {
				ms = NowMs()
				if ms > g.lastMs {
					break
				}
				time.Sleep(time.Millisecond / 8)
			}
			g.sequence = 0
		} else {
			g.sequence++
		}
	} else {
		g.sequence = 0
	}

	g.lastMs = ms
	return makeID(ms, g.sequence)
}

func makeID(ms int64, seq uint16) ID {
	return ID(uint64(ms)&0xffffffffffff)<<16 | ID(seq)
}
