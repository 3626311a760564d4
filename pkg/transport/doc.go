// Package transport collects link.Transport implementations.
//
//   - serial: USB/UART transmitter modules.
//   - stream: any net.Conn or io.ReadWriter, like TCP serial bridges.
//   - websocket: binary websocket bridges.
package transport
