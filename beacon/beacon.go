package beacon

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// Beacon is a single decoded sighting of a proximity beacon. While a beacon
// is tracked, the monitor replaces the whole record on every detection; a
// record is never mutated after it has been published.
type Beacon struct {
	Identity

	// CalibratedPower is the manufacturer-calibrated RSSI at one meter.
	CalibratedPower int8      `json:"calibratedPower"`
	RSSI            int       `json:"rssi"`
	Distance        float64   `json:"distance"`
	Proximity       Proximity `json:"proximity"`

	// Address is the hardware address of the emitting device, when the
	// radio layer reports one.
	Address string `json:"address,omitempty"`

	// ExpiresAt is the deadline after which the beacon is considered gone
	// unless re-detected. Advanced on every detection.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Binary layout version for the persisted record form.
const recordVersion = 1

// MarshalBinary encodes the record in its persisted form: uuid, major,
// minor, proximity (presence byte + value), distance (presence byte +
// value), rssi, calibrated power, address, expiry as epoch milliseconds.
// All integers are big endian; strings are length-prefixed with a uint16.
func (b *Beacon) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(recordVersion)
	if err := writeString(&buf, b.UUID); err != nil {
		return nil, err
	}
	_ = binary.Write(&buf, binary.BigEndian, b.Major)
	_ = binary.Write(&buf, binary.BigEndian, b.Minor)
	buf.WriteByte(1)
	_ = binary.Write(&buf, binary.BigEndian, int32(b.Proximity))
	buf.WriteByte(1)
	_ = binary.Write(&buf, binary.BigEndian, math.Float64bits(b.Distance))
	_ = binary.Write(&buf, binary.BigEndian, int32(b.RSSI))
	buf.WriteByte(byte(b.CalibratedPower))
	if err := writeString(&buf, b.Address); err != nil {
		return nil, err
	}
	_ = binary.Write(&buf, binary.BigEndian, b.ExpiresAt.UnixMilli())
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the persisted form written by MarshalBinary.
func (b *Beacon) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("truncated beacon record: %w", err)
	}
	if version != recordVersion {
		return fmt.Errorf("unsupported beacon record version %d", version)
	}

	if b.UUID, err = readString(r); err != nil {
		return fmt.Errorf("beacon record uuid: %w", err)
	}
	if err = binary.Read(r, binary.BigEndian, &b.Major); err != nil {
		return fmt.Errorf("beacon record major: %w", err)
	}
	if err = binary.Read(r, binary.BigEndian, &b.Minor); err != nil {
		return fmt.Errorf("beacon record minor: %w", err)
	}

	present, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("beacon record proximity: %w", err)
	}
	if present != 0 {
		var proximity int32
		if err = binary.Read(r, binary.BigEndian, &proximity); err != nil {
			return fmt.Errorf("beacon record proximity: %w", err)
		}
		b.Proximity = Proximity(proximity)
	} else {
		b.Proximity = ProximityUnknown
	}

	if present, err = r.ReadByte(); err != nil {
		return fmt.Errorf("beacon record distance: %w", err)
	}
	if present != 0 {
		var bits uint64
		if err = binary.Read(r, binary.BigEndian, &bits); err != nil {
			return fmt.Errorf("beacon record distance: %w", err)
		}
		b.Distance = math.Float64frombits(bits)
	} else {
		b.Distance = DistanceUnknown
	}

	var rssi int32
	if err = binary.Read(r, binary.BigEndian, &rssi); err != nil {
		return fmt.Errorf("beacon record rssi: %w", err)
	}
	b.RSSI = int(rssi)

	power, err := r.ReadByte()
	if err != nil {
		return fmt.Errorf("beacon record calibrated power: %w", err)
	}
	b.CalibratedPower = int8(power)

	if b.Address, err = readString(r); err != nil {
		return fmt.Errorf("beacon record address: %w", err)
	}

	var expiresMilli int64
	if err = binary.Read(r, binary.BigEndian, &expiresMilli); err != nil {
		return fmt.Errorf("beacon record expiry: %w", err)
	}
	b.ExpiresAt = time.UnixMilli(expiresMilli).UTC()
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string field too long: %d bytes", len(s))
	}
	_ = binary.Write(buf, binary.BigEndian, uint16(len(s)))
	buf.WriteString(s)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
