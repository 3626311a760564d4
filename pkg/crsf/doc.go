// Package crsf provides the CRSF wire protocol used between the handset
// and the transmitter module.
package crsf

// Every frame on the wire has the same envelope:
//
//	sync(0xC8) | length | type | payload... | crc8
//
// length counts every byte after itself (type, payload and crc).
// The crc covers type and payload only.
//
// The transmitter continuously sends RC_CHANNELS frames and answers with
// telemetry frames on the same byte stream. Out-of-band actions (bind,
// power level, model select, reboot) travel as extended command frames
// carrying destination and origin addresses.
//
// Producer: handset (this package encodes)
// Consumer: transmitter module (this package decodes its telemetry)
