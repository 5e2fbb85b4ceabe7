package linebuf

// EvictHook is an optional callback invoked with each line removed by
// TrimToMax, before the buffer releases it. Implementations may count
// evictions or archive the bytes; they must not retain the slice past the
// call without copying.
type EvictHook func(line []byte)

// Buffer keeps the newest whole lines whose cumulative size fits a byte
// budget. Lines are stored with their trailing terminator and are only ever
// evicted whole, oldest first.
//
// Buffer is not goroutine-safe; the owner serializes access under its own
// lock so that append and assemble never interleave.
type Buffer struct {
	max   int64
	total int64
	head  int
	lines [][]byte
	evict EvictHook
}

// New creates a Buffer with the given byte budget. max must be positive.
func New(max int64) *Buffer {
	return &Buffer{max: max}
}

// SetEvictHook installs the eviction callback. Pass nil to remove it.
func (b *Buffer) SetEvictHook(fn EvictHook) { b.evict = fn }

// Append adds a terminated line to the newest end. The buffer takes
// ownership of the slice.
func (b *Buffer) Append(line []byte) {
	b.lines = append(b.lines, line)
	b.total += int64(len(line))
}

// TrimToMax evicts oldest lines until the total fits the budget. Returns the
// number of lines evicted. O(1) amortized per evicted line.
func (b *Buffer) TrimToMax() int {
	evicted := 0
	for b.total > b.max && b.head < len(b.lines) {
		line := b.lines[b.head]
		b.total -= int64(len(line))
		b.lines[b.head] = nil
		b.head++
		evicted++
		if b.evict != nil {
			b.evict(line)
		}
	}
	b.compact()
	return evicted
}

// compact reclaims the evicted prefix once it dominates the backing slice.
func (b *Buffer) compact() {
	if b.head == 0 || b.head*2 < len(b.lines) {
		return
	}
	n := copy(b.lines, b.lines[b.head:])
	for i := n; i < len(b.lines); i++ {
		b.lines[i] = nil
	}
	b.lines = b.lines[:n]
	b.head = 0
}

// Assemble returns a fresh contiguous copy of all retained lines in order.
func (b *Buffer) Assemble() []byte {
	out := make([]byte, 0, b.total)
	for _, line := range b.lines[b.head:] {
		out = append(out, line...)
	}
	return out
}

// TotalBytes reports the byte count of all retained lines including
// terminators.
func (b *Buffer) TotalBytes() int64 { return b.total }

// Len reports the number of retained lines.
func (b *Buffer) Len() int { return len(b.lines) - b.head }

// MaxSize reports the configured byte budget.
func (b *Buffer) MaxSize() int64 { return b.max }
