// Package fieldcodec decodes and encodes fixed-layout records described by an
// ordered list of (name, wire format) descriptors.
//
// A Layout is built once, typically as a package-level variable, and resolves
// every field name to a slot index up front. Records are slot slices holding
// tagged Values, so decode and encode never look names up dynamically:
//
//	var header = fieldcodec.MustLayout("example",
//	    fieldcodec.Field("version", fieldcodec.Uint(4)),
//	    fieldcodec.Field("flags", fieldcodec.Uint(4)),
//	    fieldcodec.Pad(8),
//	    fieldcodec.Field("addr", fieldcodec.Uint(32)).WithHook(fieldcodec.AddrHook()),
//	)
//
//	rec, err := fieldcodec.Decode(header, data)
//
// Hooks layer richer in-memory types (addresses, text) over the numeric or
// byte storage without adding wire formats, keeping the layout purely about
// bit positions.
package fieldcodec
