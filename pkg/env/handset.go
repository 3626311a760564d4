package env

import (
	"encoding/hex"

	"github.com/denisbrodbeck/machineid"
)

const (
	appID = "crsflink"
	// DefaultHandsetID is the device ID of a radio handset.
	DefaultHandsetID byte = 0xEA
)

// MachineID retrieves the unique ID identifying the machine.
func MachineID() (string, error) {
	return machineid.ProtectedID(appID)
}

// HandsetID derives a stable, non-zero handset ID for binding
// from the machine ID. It falls back to DefaultHandsetID.
func HandsetID() byte {
	id, err := MachineID()
	if err != nil {
		return DefaultHandsetID
	}
	return handsetIDFrom(id)
}

func handsetIDFrom(id string) byte {
	raw, err := hex.DecodeString(id)
	if err != nil || len(raw) == 0 {
		return DefaultHandsetID
	}
	var v byte
	for _, b := range raw {
		v ^= b
	}
	if v == 0 {
		return DefaultHandsetID
	}
	return v
}
