package bytesize

import (
	"testing"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		// Plain numbers
		{"plain zero", "0", 0, false},
		{"plain bytes", "1024", 1024, false},
		{"plain large", "1073741824", 1073741824, false},

		// Bytes suffix
		{"bytes B", "1024B", 1024, false},
		{"bytes b lowercase", "1024b", 1024, false},

		// Binary units (×1024)
		{"kibibytes Ki", "1Ki", 1024, false},
		{"kibibytes KiB", "1KiB", 1024, false},
		{"mebibytes Mi", "100Mi", 100 * 1024 * 1024, false},
		{"mebibytes MiB", "100MiB", 100 * 1024 * 1024, false},
		{"gibibytes Gi", "1Gi", 1024 * 1024 * 1024, false},
		{"gibibytes GiB", "1GiB", 1024 * 1024 * 1024, false},
		{"tebibytes Ti", "1Ti", 1024 * 1024 * 1024 * 1024, false},
		{"tebibytes TiB", "1TiB", 1024 * 1024 * 1024 * 1024, false},

		// Decimal units (×1000)
		{"kilobytes K", "1K", 1000, false},
		{"kilobytes KB", "1KB", 1000, false},
		{"megabytes M", "100M", 100 * 1000 * 1000, false},
		{"megabytes MB", "100MB", 100 * 1000 * 1000, false},
		{"gigabytes G", "1G", 1000 * 1000 * 1000, false},
		{"gigabytes GB", "1GB", 1000 * 1000 * 1000, false},
		{"terabytes T", "1T", 1000 * 1000 * 1000 * 1000, false},
		{"terabytes TB", "1TB", 1000 * 1000 * 1000 * 1000, false},

		// Case insensitivity
		{"lowercase gi", "1gi", 1024 * 1024 * 1024, false},
		{"uppercase GI", "1GI", 1024 * 1024 * 1024, false},
		{"mixed case Gi", "1Gi", 1024 * 1024 * 1024, false},

		// Whitespace handling
		{"leading space", "  1Gi", 1024 * 1024 * 1024, false},
		{"trailing space", "1Gi  ", 1024 * 1024 * 1024, false},
		{"space between", "1 Gi", 1024 * 1024 * 1024, false},

		// Floating point
		{"float mebibytes", "1.5Mi", ByteSize(1.5 * 1024 * 1024), false},
		{"float gibibytes", "0.5Gi", ByteSize(0.5 * 1024 * 1024 * 1024), false},

		// Packet sizes
		{"default limit", "64Ki", 64 * 1024, false},
		{"ethernet mtu", "1500", 1500, false},
		{"jumbo frame", "9KB", 9000, false},
		{"spaced binary", "1.5 MiB", ByteSize(1.5 * 1024 * 1024), false},

		// Error cases
		{"empty string", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"invalid unit", "1Xi", 0, true},
		{"negative number", "-1Gi", 0, true},
		{"no number", "Gi", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseByteSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseByteSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseByteSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteSize_UnmarshalText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"simple", "1Gi", 1024 * 1024 * 1024, false},
		{"numeric", "1024", 1024, false},
		{"invalid", "invalid", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b ByteSize
			err := b.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("ByteSize.UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && b != tt.want {
				t.Errorf("ByteSize.UnmarshalText(%q) = %d, want %d", tt.input, b, tt.want)
			}
		})
	}
}

func TestByteSize_String(t *testing.T) {
	tests := []struct {
		name  string
		input ByteSize
		want  string
	}{
		{"bytes", 512, "512 B"},
		{"kibibytes", 2 * KiB, "2.0 KiB"},
		{"default limit", 64 * KiB, "64 KiB"},
		{"mebibytes", 100 * MiB, "100 MiB"},
		{"fractional gibibytes", ByteSize(1.5 * float64(GiB)), "1.5 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.String(); got != tt.want {
				t.Errorf("ByteSize(%d).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestByteSize_MarshalText(t *testing.T) {
	tests := []struct {
		input ByteSize
		want  string
	}{
		{0, "0"},
		{1500, "1500"},
		{64 * KiB, "64Ki"},
		{1536, "1536"},
		{3 * MiB, "3Mi"},
		{2 * TiB, "2Ti"},
	}

	for _, tt := range tests {
		got, err := tt.input.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", tt.input, err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalText(%d) = %q, want %q", tt.input, got, tt.want)
		}

		var back ByteSize
		if err := back.UnmarshalText(got); err != nil || back != tt.input {
			t.Errorf("round trip of %d gave %d, %v", tt.input, back, err)
		}
	}
}

func TestByteSize_Conversions(t *testing.T) {
	size := 64 * KiB

	if got := size.Uint64(); got != 65536 {
		t.Errorf("ByteSize.Uint64() = %d, want 65536", got)
	}
	if got := size.Int(); got != 65536 {
		t.Errorf("ByteSize.Int() = %d, want 65536", got)
	}
	if got := ByteSize(^uint64(0)).Int(); got <= 0 {
		t.Errorf("ByteSize.Int() did not saturate: %d", got)
	}
}

func TestByteSize_Constants(t *testing.T) {
	// Verify binary unit constants
	if KiB != 1024 {
		t.Errorf("KiB = %d, want 1024", KiB)
	}
	if MiB != 1024*1024 {
		t.Errorf("MiB = %d, want %d", MiB, 1024*1024)
	}
	if GiB != 1024*1024*1024 {
		t.Errorf("GiB = %d, want %d", GiB, 1024*1024*1024)
	}
	if TiB != 1024*1024*1024*1024 {
		t.Errorf("TiB = %d, want %d", TiB, 1024*1024*1024*1024)
	}

	// Verify decimal unit constants
	if KB != 1000 {
		t.Errorf("KB = %d, want 1000", KB)
	}
	if MB != 1000*1000 {
		t.Errorf("MB = %d, want %d", MB, 1000*1000)
	}
	if GB != 1000*1000*1000 {
		t.Errorf("GB = %d, want %d", GB, 1000*1000*1000)
	}
	if TB != 1000*1000*1000*1000 {
		t.Errorf("TB = %d, want %d", TB, 1000*1000*1000*1000)
	}
}
