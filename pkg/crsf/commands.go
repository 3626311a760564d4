package crsf

import (
	"fmt"
	"sort"
)

// Device addresses used by extended frames.
const (
	AddressBroadcast        byte = 0x00
	AddressFlightController byte = 0xC8
	AddressRadio            byte = 0xEA
	AddressTransmitter      byte = 0xEE
)

// MaxCommandPayloadSize is the capacity of a command frame payload.
const MaxCommandPayloadSize = 57

// commandOverhead is type, destination, origin, function, size and crc.
const commandOverhead = 6

// CommandFunction is the function code carried by a command frame.
type CommandFunction byte

// Command function codes.
const (
	FunctionDiscover   CommandFunction = 0x28
	FunctionLinkParams CommandFunction = 0x2D
	FunctionReboot     CommandFunction = 0x68
	FunctionPower      CommandFunction = 0xF5
	FunctionModel      CommandFunction = 0xF6
)

// Addresses identifies both ends of a command frame.
type Addresses struct {
	Destination byte `yaml:"destination"`
	Origin      byte `yaml:"origin"`
}

// DefaultAddresses sends from the transmitter to the paired flight controller.
var DefaultAddresses = Addresses{
	Destination: AddressFlightController,
	Origin:      AddressTransmitter,
}

// EncodeCommandFrame encodes a command frame using DefaultAddresses.
func EncodeCommandFrame(fn CommandFunction, payload []byte) ([]byte, error) {
	return DefaultAddresses.EncodeCommandFrame(fn, payload)
}

// EncodeCommandFrame encodes a command frame with these addresses.
func (a Addresses) EncodeCommandFrame(fn CommandFunction, payload []byte) ([]byte, error) {
	if len(payload) > MaxCommandPayloadSize {
		return nil, fmt.Errorf("%w: command 0x%02X with %d bytes", ErrPayloadTooLarge, byte(fn), len(payload))
	}
	b := make([]byte, len(payload)+commandOverhead+2)
	b[0], b[1], b[2] = SyncByte, byte(len(payload)+commandOverhead), byte(FrameTypeMSPCommand)
	b[3], b[4], b[5], b[6] = a.Destination, a.Origin, byte(fn), byte(len(payload))
	copy(b[7:], payload)
	b[len(b)-1] = Checksum(b[2 : len(b)-1])
	return b, nil
}

// DeviceIDs are the identifiers placed in link parameter payloads.
type DeviceIDs struct {
	TxDevice byte `yaml:"tx_device"`
	Handset  byte `yaml:"handset"`
}

// DefaultDeviceIDs match the addresses of a stock handset and module.
var DefaultDeviceIDs = DeviceIDs{
	TxDevice: AddressTransmitter,
	Handset:  AddressRadio,
}

// Command is a discrete action ready to be encoded.
type Command struct {
	Name     string
	Function CommandFunction
	Payload  []byte
}

// Encode encodes the command with the given addresses.
func (c Command) Encode(addr Addresses) ([]byte, error) {
	return addr.EncodeCommandFrame(c.Function, c.Payload)
}

// Command names accepted by LookupCommand.
const (
	CmdBind          = "bind"
	CmdDiscover      = "discover"
	CmdPollLinkStats = "link-stats"
	CmdPowerUp       = "power-up"
	CmdPowerDown     = "power-down"
	CmdNextModel     = "model-next"
	CmdReboot        = "reboot"
)

// Bind requests pairing.
func Bind(ids DeviceIDs) Command {
	return Command{Name: CmdBind, Function: FunctionLinkParams, Payload: []byte{ids.TxDevice, ids.Handset, 0x00, 0x01}}
}

// DiscoverDevices enumerates devices on the link.
func DiscoverDevices(ids DeviceIDs) Command {
	return Command{Name: CmdDiscover, Function: FunctionDiscover, Payload: []byte{0x00, ids.Handset}}
}

// PollLinkStats requests link statistics telemetry.
func PollLinkStats(ids DeviceIDs) Command {
	return Command{Name: CmdPollLinkStats, Function: FunctionLinkParams, Payload: []byte{ids.TxDevice, ids.Handset, 0x00, 0x00}}
}

// PowerUp raises TX power one step.
func PowerUp() Command {
	return Command{Name: CmdPowerUp, Function: FunctionPower, Payload: []byte{0x01}}
}

// PowerDown lowers TX power one step.
func PowerDown() Command {
	return Command{Name: CmdPowerDown, Function: FunctionPower, Payload: []byte{0x00}}
}

// NextModel cycles the model slot.
func NextModel() Command {
	return Command{Name: CmdNextModel, Function: FunctionModel, Payload: []byte{0x01}}
}

// Reboot reboots the transmitter.
func Reboot() Command {
	return Command{Name: CmdReboot, Function: FunctionReboot}
}

var commandBuilders = map[string]func(DeviceIDs) Command{
	CmdBind:          Bind,
	CmdDiscover:      DiscoverDevices,
	CmdPollLinkStats: PollLinkStats,
	CmdPowerUp:       func(DeviceIDs) Command { return PowerUp() },
	CmdPowerDown:     func(DeviceIDs) Command { return PowerDown() },
	CmdNextModel:     func(DeviceIDs) Command { return NextModel() },
	CmdReboot:        func(DeviceIDs) Command { return Reboot() },
}

// LookupCommand builds the command by name.
func LookupCommand(name string, ids DeviceIDs) (Command, error) {
	build, ok := commandBuilders[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return build(ids), nil
}

// CommandNames lists all names accepted by LookupCommand, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commandBuilders))
	for name := range commandBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
