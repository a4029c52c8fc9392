// Package ipv4 decodes and re-encodes IPv4 packets: the fixed 20-byte
// header, the variable options section and the opaque payload.
//
// Decoding never interprets the payload and never verifies the header
// checksum; both are kept verbatim so that Encode reproduces the input
// exactly:
//
//	pkt, err := ipv4.Decode(data)
//	if err != nil {
//	    return err
//	}
//	out, err := pkt.Encode() // bytes.Equal(out, data)
package ipv4
