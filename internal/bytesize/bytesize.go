// Package bytesize parses and prints byte counts written for humans, such
// as the decoder's maximum packet size in the config file.
package bytesize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ByteSize represents a size in bytes that can be unmarshaled from human-readable
// strings like "64Ki", "1500", "9KB" or "1.5 MiB".
//
// Supported formats:
//   - Plain numbers: 1500, 65535
//   - Binary units (×1024): Ki/KiB, Mi/MiB, Gi/GiB, Ti/TiB
//   - Decimal units (×1000): K/KB, M/MB, G/GB, T/TB
//   - Bytes: B
type ByteSize uint64

// Common byte size constants
const (
	B  ByteSize = 1
	KB ByteSize = humanize.KByte
	MB ByteSize = humanize.MByte
	GB ByteSize = humanize.GByte
	TB ByteSize = humanize.TByte

	KiB ByteSize = humanize.KiByte
	MiB ByteSize = humanize.MiByte
	GiB ByteSize = humanize.GiByte
	TiB ByteSize = humanize.TiByte
)

// ParseByteSize parses a human-readable byte size string into a ByteSize value.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	return ByteSize(n), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for ByteSize.
// This allows ByteSize to be used directly in structs with mapstructure.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalText writes the exact size, using the largest binary unit that
// divides it, so a saved config parses back to the same value.
func (b ByteSize) MarshalText() ([]byte, error) {
	units := []struct {
		size ByteSize
		name string
	}{{TiB, "Ti"}, {GiB, "Gi"}, {MiB, "Mi"}, {KiB, "Ki"}}

	for _, u := range units {
		if b >= u.size && b%u.size == 0 {
			return []byte(strconv.FormatUint(uint64(b/u.size), 10) + u.name), nil
		}
	}
	return []byte(strconv.FormatUint(uint64(b), 10)), nil
}

// String returns a rounded human-readable representation, e.g. "64 KiB".
func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Int returns the size as an int, saturating at the largest int.
func (b ByteSize) Int() int {
	const maxInt = int(^uint(0) >> 1)
	if uint64(b) > uint64(maxInt) {
		return maxInt
	}
	return int(b)
}

// Uint64 returns the ByteSize as a uint64.
func (b ByteSize) Uint64() uint64 {
	return uint64(b)
}
