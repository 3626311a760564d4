// Package link drives a CRSF transmitter module: it streams RC channels,
// gates throttle on arming and link health, decodes telemetry and issues
// discrete commands.
package link

// Two loops share one ControlState and one Port:
//
//	caller -> ControlState -> Transmitter -> crsf.EncodeRCFrame -> Port
//	Port -> Receiver -> crsf.Parser -> crsf.DecodeTelemetry -> Sink
//	                                                         -> ControlState (link ok)
//
// Every write to the transport, from either loop or from a command call,
// goes through Port.WriteFrame which holds a mutex for the whole frame.
