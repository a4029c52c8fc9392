// Package variant parses and re-emits sections of self-describing
// sub-records: a fixed tag header, an optional length, and a payload.
//
// The per-protocol rules live in a Section: the tag header layout, which
// header fields form the catalog key, the width and convention of the length
// field, the stop policy, and the Catalog that says what every legal tag
// looks like. Parsing runs a small state machine:
//
//	ExpectTag -> ReadTagHeader -> (Terminate | ReadLength -> ReadPayload -> ExpectTag)
//
// A tag missing from the catalog fails with wire.ErrUnknownTag. Bytes are
// never skipped to resynchronise. Every iteration consumes at least one tag
// header, and sections whose header is empty are rejected up front with
// wire.ErrInvalidCatalog, so the loop always terminates.
package variant
