// Package bufpool provides tiered, reusable byte slices for packet input.
//
// Inputs are read into a pooled buffer, decoded, and the buffer is handed
// back. Decoders copy everything they keep, so a buffer can be reused as
// soon as decoding returns.
//
// # Size Classes
//
// Three tiers follow common link-layer limits:
//   - Frame buffers (default 2KiB): anything that fits an Ethernet MTU
//   - Jumbo buffers (default 16KiB): jumbo frames up to 9000 bytes and more
//   - Datagram buffers (default 128KiB): the largest IPv4 datagram plus
//     headroom, so a reader can detect input beyond the 64KiB limit
//
// Requests above the datagram tier are allocated directly and never pooled.
//
// # Thread Safety
//
// All operations are safe for concurrent use via sync.Pool.
//
// # Usage
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
//	// ... use buf ...
package bufpool

import (
	"sync"
)

// Default buffer size classes.
const (
	// DefaultFrameSize covers a 1500-byte MTU with room to spare (2KiB)
	DefaultFrameSize = 2 << 10

	// DefaultJumboSize covers 9000-byte jumbo frames (16KiB)
	DefaultJumboSize = 16 << 10

	// DefaultDatagramSize covers a 65535-byte datagram and one extra read (128KiB)
	DefaultDatagramSize = 128 << 10
)

// tier is one size class backed by its own sync.Pool.
type tier struct {
	size int
	pool sync.Pool
}

// Pool hands out byte slices from the smallest tier that fits.
type Pool struct {
	tiers [3]*tier
}

// Config holds configuration for creating a custom buffer pool.
// Sizes must be increasing; zero values take the defaults.
type Config struct {
	FrameSize    int
	JumboSize    int
	DatagramSize int
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		FrameSize:    DefaultFrameSize,
		JumboSize:    DefaultJumboSize,
		DatagramSize: DefaultDatagramSize,
	}
}

// NewPool creates a new buffer pool. A nil config uses DefaultConfig.
func NewPool(cfg *Config) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.FrameSize > 0 {
			c.FrameSize = cfg.FrameSize
		}
		if cfg.JumboSize > 0 {
			c.JumboSize = cfg.JumboSize
		}
		if cfg.DatagramSize > 0 {
			c.DatagramSize = cfg.DatagramSize
		}
	}

	p := &Pool{}
	for i, size := range []int{c.FrameSize, c.JumboSize, c.DatagramSize} {
		t := &tier{size: size}
		t.pool.New = func() any {
			buf := make([]byte, t.size)
			return &buf
		}
		p.tiers[i] = t
	}
	return p
}

// Get returns a slice of length size. Its capacity is the tier size, or
// exactly size when no tier is large enough. Negative sizes are treated
// as zero.
//
// Callers should Put the slice back once nothing references it.
func (p *Pool) Get(size int) []byte {
	if size < 0 {
		size = 0
	}
	for _, t := range p.tiers {
		if size <= t.size {
			buf := *t.pool.Get().(*[]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to the tier matching its capacity. Slices of any other
// capacity, including nil, are left to the garbage collector.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	for _, t := range p.tiers {
		if cap(buf) == t.size {
			full := buf[:cap(buf)]
			t.pool.Put(&full)
			return
		}
	}
}

// Copy returns a pooled copy of src.
func (p *Pool) Copy(src []byte) []byte {
	buf := p.Get(len(src))
	copy(buf, src)
	return buf
}

// =============================================================================
// Global Pool
// =============================================================================

var globalPool = NewPool(nil)

// Get returns a slice of length size from the global pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}

// Copy returns a copy of src backed by the global pool.
func Copy(src []byte) []byte {
	return globalPool.Copy(src)
}

// GetUint16 sizes a buffer from a 16-bit length field such as the IPv4
// total length.
func GetUint16(size uint16) []byte {
	return globalPool.Get(int(size))
}
