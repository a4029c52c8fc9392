package commands

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// packetInput is one packet to decode and where it came from.
type packetInput struct {
	Source string
	Data   []byte
}

// parseHex decodes a hex dump. Whitespace, ':' and '-' separators and a
// leading 0x are ignored.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			continue
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("empty hex input")
	}

	data, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// readHexLines reads one packet per non-empty line. Lines starting with '#'
// are comments.
func readHexLines(name string, r io.Reader) ([]packetInput, error) {
	var packets []packetInput
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		data, err := parseHex(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		packets = append(packets, packetInput{
			Source: fmt.Sprintf("%s:%d", name, line),
			Data:   data,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return packets, nil
}

// openInput opens path, or stdin for "-".
func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input: %w", err)
	}
	return f, path, nil
}
