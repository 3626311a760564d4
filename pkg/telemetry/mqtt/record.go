package mqtt

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/crsflink/pkg/crsf"
)

// Topics under the client prefix.
const (
	TelemetryTopic = "telemetry/"
	StatusTopic    = "status"
)

// Record is the message of one telemetry sample.
// Exactly one of the typed fields is set, matching Kind.
type Record struct {
	Kind       string            `protobuf:"bytes,1,opt,name=kind,proto3" json:"kind,omitempty"`
	TimeNano   int64             `protobuf:"varint,2,opt,name=time_nano,proto3" json:"time_nano,omitempty"`
	Values     []float64         `protobuf:"fixed64,3,rep,packed,name=values,proto3" json:"values,omitempty"`
	LinkStats  *LinkStatsRecord  `protobuf:"bytes,4,opt,name=link_stats,proto3" json:"link_stats,omitempty"`
	Battery    *BatteryRecord    `protobuf:"bytes,5,opt,name=battery,proto3" json:"battery,omitempty"`
	Attitude   *AttitudeRecord   `protobuf:"bytes,6,opt,name=attitude,proto3" json:"attitude,omitempty"`
	FlightMode *FlightModeRecord `protobuf:"bytes,7,opt,name=flight_mode,proto3" json:"flight_mode,omitempty"`
	Unknown    *UnknownRecord    `protobuf:"bytes,8,opt,name=unknown,proto3" json:"unknown,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Record) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Record) Reset() { *m = Record{} }

// String implements proto.Message.
func (m *Record) String() string { return proto.CompactTextString(m) }

// LinkStatsRecord carries crsf.LinkStats.
type LinkStatsRecord struct {
	Rssi1         int32 `protobuf:"zigzag32,1,opt,name=rssi1,proto3" json:"rssi1,omitempty"`
	Rssi2         int32 `protobuf:"zigzag32,2,opt,name=rssi2,proto3" json:"rssi2,omitempty"`
	Lq            int32 `protobuf:"zigzag32,3,opt,name=lq,proto3" json:"lq,omitempty"`
	Snr           int32 `protobuf:"zigzag32,4,opt,name=snr,proto3" json:"snr,omitempty"`
	TxPower       int32 `protobuf:"zigzag32,5,opt,name=tx_power,proto3" json:"tx_power,omitempty"`
	ActiveAntenna int32 `protobuf:"zigzag32,6,opt,name=active_antenna,proto3" json:"active_antenna,omitempty"`
	RfMode        int32 `protobuf:"zigzag32,7,opt,name=rf_mode,proto3" json:"rf_mode,omitempty"`
	DownlinkRssi  int32 `protobuf:"zigzag32,8,opt,name=downlink_rssi,proto3" json:"downlink_rssi,omitempty"`
	DownlinkLq    int32 `protobuf:"zigzag32,9,opt,name=downlink_lq,proto3" json:"downlink_lq,omitempty"`
	DownlinkSnr   int32 `protobuf:"zigzag32,10,opt,name=downlink_snr,proto3" json:"downlink_snr,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *LinkStatsRecord) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatsRecord) Reset() { *m = LinkStatsRecord{} }

// String implements proto.Message.
func (m *LinkStatsRecord) String() string { return proto.CompactTextString(m) }

// BatteryRecord carries crsf.Battery.
type BatteryRecord struct {
	VoltageMv   int32 `protobuf:"zigzag32,1,opt,name=voltage_mv,proto3" json:"voltage_mv,omitempty"`
	CurrentMa   int32 `protobuf:"zigzag32,2,opt,name=current_ma,proto3" json:"current_ma,omitempty"`
	CapacityMah int32 `protobuf:"zigzag32,3,opt,name=capacity_mah,proto3" json:"capacity_mah,omitempty"`
	Remaining   int32 `protobuf:"zigzag32,4,opt,name=remaining,proto3" json:"remaining,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *BatteryRecord) ProtoMessage() {}

// Reset implements proto.Message.
func (m *BatteryRecord) Reset() { *m = BatteryRecord{} }

// String implements proto.Message.
func (m *BatteryRecord) String() string { return proto.CompactTextString(m) }

// AttitudeRecord carries crsf.Attitude, in radians.
type AttitudeRecord struct {
	Pitch float64 `protobuf:"fixed64,1,opt,name=pitch,proto3" json:"pitch,omitempty"`
	Roll  float64 `protobuf:"fixed64,2,opt,name=roll,proto3" json:"roll,omitempty"`
	Yaw   float64 `protobuf:"fixed64,3,opt,name=yaw,proto3" json:"yaw,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *AttitudeRecord) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AttitudeRecord) Reset() { *m = AttitudeRecord{} }

// String implements proto.Message.
func (m *AttitudeRecord) String() string { return proto.CompactTextString(m) }

// FlightModeRecord carries crsf.FlightMode.
type FlightModeRecord struct {
	Mode string `protobuf:"bytes,1,opt,name=mode,proto3" json:"mode,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *FlightModeRecord) ProtoMessage() {}

// Reset implements proto.Message.
func (m *FlightModeRecord) Reset() { *m = FlightModeRecord{} }

// String implements proto.Message.
func (m *FlightModeRecord) String() string { return proto.CompactTextString(m) }

// UnknownRecord carries crsf.UnknownFrame.
type UnknownRecord struct {
	Type    uint32 `protobuf:"varint,1,opt,name=type,proto3" json:"type,omitempty"`
	Payload []byte `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *UnknownRecord) ProtoMessage() {}

// Reset implements proto.Message.
func (m *UnknownRecord) Reset() { *m = UnknownRecord{} }

// String implements proto.Message.
func (m *UnknownRecord) String() string { return proto.CompactTextString(m) }

// NewRecord wraps a sample.
func NewRecord(s crsf.Sample, at time.Time) (*Record, error) {
	values := s.Values()
	r := &Record{Kind: s.Kind().String(), TimeNano: at.UnixNano(), Values: values[:]}
	switch v := s.(type) {
	case crsf.LinkStats:
		r.LinkStats = &LinkStatsRecord{
			Rssi1:         int32(v.RSSI1),
			Rssi2:         int32(v.RSSI2),
			Lq:            int32(v.LQ),
			Snr:           int32(v.SNR),
			TxPower:       int32(v.TxPower),
			ActiveAntenna: int32(v.ActiveAntenna),
			RfMode:        int32(v.RFMode),
			DownlinkRssi:  int32(v.DownlinkRSSI),
			DownlinkLq:    int32(v.DownlinkLQ),
			DownlinkSnr:   int32(v.DownlinkSNR),
		}
	case crsf.Battery:
		r.Battery = &BatteryRecord{
			VoltageMv:   int32(v.VoltageMv),
			CurrentMa:   int32(v.CurrentMa),
			CapacityMah: int32(v.CapacityMah),
			Remaining:   int32(v.Remaining),
		}
	case crsf.Attitude:
		r.Attitude = &AttitudeRecord{Pitch: v.Pitch, Roll: v.Roll, Yaw: v.Yaw}
	case crsf.FlightMode:
		r.FlightMode = &FlightModeRecord{Mode: v.Mode}
	case crsf.UnknownFrame:
		r.Unknown = &UnknownRecord{Type: uint32(v.Type), Payload: v.Payload}
	default:
		return nil, fmt.Errorf("unsupported sample %T", s)
	}
	return r, nil
}

// Time gets the time the sample was received.
func (m *Record) Time() time.Time {
	return time.Unix(0, m.TimeNano)
}

// Encode encodes the Record to bytes.
func (m *Record) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// TopicOf gets the telemetry topic of a sample kind.
func TopicOf(kind crsf.SampleKind) string {
	return TelemetryTopic + kind.String()
}

// DecodeRecord parses a Record.
func DecodeRecord(payload []byte) (*Record, error) {
	var r Record
	if err := proto.Unmarshal(payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Sample restores the typed sample.
func (m *Record) Sample() (crsf.Sample, error) {
	missing := fmt.Errorf("%s record without data", m.Kind)
	switch m.Kind {
	case crsf.SampleLinkStats.String():
		v := m.LinkStats
		if v == nil {
			return nil, missing
		}
		return crsf.LinkStats{
			RSSI1:         int(v.Rssi1),
			RSSI2:         int(v.Rssi2),
			LQ:            int(v.Lq),
			SNR:           int(v.Snr),
			TxPower:       int(v.TxPower),
			ActiveAntenna: int(v.ActiveAntenna),
			RFMode:        int(v.RfMode),
			DownlinkRSSI:  int(v.DownlinkRssi),
			DownlinkLQ:    int(v.DownlinkLq),
			DownlinkSNR:   int(v.DownlinkSnr),
		}, nil
	case crsf.SampleBattery.String():
		v := m.Battery
		if v == nil {
			return nil, missing
		}
		return crsf.Battery{
			VoltageMv:   int(v.VoltageMv),
			CurrentMa:   int(v.CurrentMa),
			CapacityMah: int(v.CapacityMah),
			Remaining:   int(v.Remaining),
		}, nil
	case crsf.SampleAttitude.String():
		v := m.Attitude
		if v == nil {
			return nil, missing
		}
		return crsf.Attitude{Pitch: v.Pitch, Roll: v.Roll, Yaw: v.Yaw}, nil
	case crsf.SampleFlightMode.String():
		v := m.FlightMode
		if v == nil {
			return nil, missing
		}
		return crsf.FlightMode{Mode: v.Mode}, nil
	case crsf.SampleUnknown.String():
		v := m.Unknown
		if v == nil {
			return nil, missing
		}
		return crsf.UnknownFrame{Type: crsf.FrameType(v.Type), Payload: v.Payload}, nil
	}
	return nil, fmt.Errorf("unknown sample kind %q", m.Kind)
}

// Status is the engine status message.
type Status struct {
	TimeNano     int64  `protobuf:"varint,1,opt,name=time_nano,proto3" json:"time_nano,omitempty"`
	Armed        bool   `protobuf:"varint,2,opt,name=armed,proto3" json:"armed,omitempty"`
	LinkOk       bool   `protobuf:"varint,3,opt,name=link_ok,proto3" json:"link_ok,omitempty"`
	Override     bool   `protobuf:"varint,4,opt,name=override,proto3" json:"override,omitempty"`
	Transmitting bool   `protobuf:"varint,5,opt,name=transmitting,proto3" json:"transmitting,omitempty"`
	Receiving    bool   `protobuf:"varint,6,opt,name=receiving,proto3" json:"receiving,omitempty"`
	TxFrames     uint64 `protobuf:"varint,7,opt,name=tx_frames,proto3" json:"tx_frames,omitempty"`
	TxFailed     uint64 `protobuf:"varint,8,opt,name=tx_failed,proto3" json:"tx_failed,omitempty"`
	RxFrames     uint64 `protobuf:"varint,9,opt,name=rx_frames,proto3" json:"rx_frames,omitempty"`
	RxDropped    uint64 `protobuf:"varint,10,opt,name=rx_dropped,proto3" json:"rx_dropped,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// Time gets the time the status was taken.
func (m *Status) Time() time.Time {
	return time.Unix(0, m.TimeNano)
}

// DecodeStatus parses a Status.
func DecodeStatus(payload []byte) (*Status, error) {
	var st Status
	if err := proto.Unmarshal(payload, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
