// Package ndr implements a representative subset of Network Data
// Representation, the transfer syntax of DCE/RPC.
//
// NDR is receiver-makes-right: the sender writes values in its own
// representation and announces it in a four-byte format label (the
// "packed_drep" of every PDU header). The label selects integer byte
// order, character set and floating-point format for the rest of the
// stream.
//
// Reference: [C706] DCE 1.1: Remote Procedure Call, Chapter 14
package ndr
