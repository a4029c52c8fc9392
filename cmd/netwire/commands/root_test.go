package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/netwire/pkg/inspect"
)

// ipv4Hex is a 20-byte TCP header from 192.0.2.1 to 198.51.100.2 followed
// by a 4-byte payload.
const ipv4Hex = "45100018123440004006abcdc0000201c6336402deadbeef"

// resetFlags restores every flag to its default so runs do not leak
// into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command against a config path that does not
// exist, so built-in defaults apply.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	return runWithConfig(t, configFile, args...)
}

func runWithConfig(t *testing.T, configFile string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", configFile}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute()
	return out.String(), err
}

func TestDecode_JSON(t *testing.T) {
	out, err := run(t, "decode", "-o", "json", ipv4Hex)
	require.NoError(t, err)

	assert.Contains(t, out, `"version": 4`)
	assert.Contains(t, out, `"source": "args"`)
	assert.Contains(t, out, `"match": true`)
	assert.Contains(t, out, `"payload_size": 4`)
}

func TestDecode_Table(t *testing.T) {
	out, err := run(t, "decode", ipv4Hex[:24], ipv4Hex[24:])
	require.NoError(t, err)

	assert.Contains(t, out, "PACKET")
	assert.Contains(t, out, "HEADER")
	assert.Contains(t, out, "ROUND TRIP")
	assert.NotContains(t, out, "OPTIONS", "no options, no section")
}

func TestDecode_NoVerify(t *testing.T) {
	out, err := run(t, "decode", "--no-verify", "-o", "yaml", ipv4Hex)
	require.NoError(t, err)
	assert.Contains(t, out, "checked: false")
}

func TestDecode_File(t *testing.T) {
	dir := t.TempDir()

	raw, err := parseHex(ipv4Hex)
	require.NoError(t, err)
	rawFile := filepath.Join(dir, "packet.bin")
	require.NoError(t, os.WriteFile(rawFile, raw, 0644))

	out, err := run(t, "decode", "-o", "json", "-f", rawFile)
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "`+rawFile+`"`)

	hexFile := filepath.Join(dir, "packet.hex")
	require.NoError(t, os.WriteFile(hexFile, []byte("# dump\n"+ipv4Hex[:20]+"\n"+ipv4Hex[20:]+"\n"), 0644))

	out, err = run(t, "decode", "-o", "json", "--hex", "-f", hexFile)
	require.NoError(t, err)
	assert.Contains(t, out, `"size": 24`)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := run(t, "decode", "4500")
		assert.Error(t, err)
	})

	t.Run("bad hex", func(t *testing.T) {
		_, err := run(t, "decode", "xyz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hex")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := run(t, "decode", "--max-size", "16", ipv4Hex)
		require.Error(t, err)
	})

	t.Run("hex file too large", func(t *testing.T) {
		// Comment lines alone push the text past the read limit for 64 bytes.
		hexFile := filepath.Join(t.TempDir(), "big.hex")
		body := ipv4Hex + "\n# " + strings.Repeat("x", 2000) + "\n"
		require.NoError(t, os.WriteFile(hexFile, []byte(body), 0644))

		_, err := run(t, "decode", "--max-size", "64", "--hex", "-f", hexFile)
		require.ErrorIs(t, err, inspect.ErrTooLarge)
	})

	t.Run("args and file", func(t *testing.T) {
		_, err := run(t, "decode", "-f", "x.bin", ipv4Hex)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestVerify(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "capture.hex")
	require.NoError(t, os.WriteFile(capture, []byte("# two packets\n"+ipv4Hex+"\n"+ipv4Hex+"\n"), 0644))

	out, err := run(t, "verify", capture)
	require.NoError(t, err)
	assert.Contains(t, out, capture+":2")
	assert.Contains(t, out, capture+":3")
	assert.Contains(t, out, "match")
}

func TestVerify_Failure(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "capture.hex")
	require.NoError(t, os.WriteFile(capture, []byte(ipv4Hex+"\n4500\n"), 0644))

	out, err := run(t, "verify", "-o", "json", capture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 packets failed verification")
	assert.Contains(t, out, `"result": "error"`)
	assert.Contains(t, out, `"result": "match"`)
}

func TestOptions(t *testing.T) {
	out, err := run(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "Record Route")
	assert.Contains(t, out, "Internet Timestamp")
}

func TestClassify(t *testing.T) {
	out, err := run(t, "classify", "-o", "json", "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Loopback"`)
}

func TestNDR(t *testing.T) {
	out, err := run(t, "ndr", "-o", "json", "10000000410000002a000000", "--read", "char,ulong")
	require.NoError(t, err)
	assert.Contains(t, out, `"byte_order": "little-endian"`)
	assert.Contains(t, out, `"value": "42"`)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "options", "--charset", "klingon")
	assert.Error(t, err)

	_, err = run(t, "options", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "options", "--max-size", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--max-size")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestVersion_SkipsConfig(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("decoder: [unclosed"), 0644))

	_, err := runWithConfig(t, broken, "version")
	require.NoError(t, err)

	_, err = runWithConfig(t, broken, "options")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "netwire")
}
