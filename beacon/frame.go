package beacon

import (
	"encoding/binary"
	"encoding/hex"
)

// Advertisement frame layout, relative to the matched start offset:
//
//	+2..+3   marker 0x02 0x15 identifying the beacon sub-structure
//	+4..+19  16-byte proximity UUID
//	+20..+21 major, big endian
//	+22..+23 minor, big endian
//	+24      calibrated power at 1m, two's-complement signed
const (
	markerByte1 = 0x02
	markerByte2 = 0x15

	// The marker may appear at start offsets 2 through 5 inclusive,
	// depending on which AD structures precede the manufacturer data.
	searchWindowFirst = 2
	searchWindowLast  = 5

	// Bytes required from the matched start offset to the end of the
	// calibrated-power field.
	frameLength = 25
)

// Decode extracts a beacon record from a raw advertising-report payload.
// It returns (nil, false) when the payload does not carry the beacon
// sub-structure; that is a normal negative result, not an error. Truncated
// payloads are rejected the same way rather than read out of bounds.
func Decode(payload []byte, rssi int, address string) (*Beacon, bool) {
	start := -1
	for off := searchWindowFirst; off <= searchWindowLast; off++ {
		if off+3 >= len(payload) {
			break
		}
		if payload[off+2] == markerByte1 && payload[off+3] == markerByte2 {
			start = off
			break
		}
	}
	if start < 0 || len(payload) < start+frameLength {
		return nil, false
	}

	major := binary.BigEndian.Uint16(payload[start+20 : start+22])
	minor := binary.BigEndian.Uint16(payload[start+22 : start+24])
	power := int8(payload[start+24])

	distance := EstimateDistance(power, float64(rssi))

	return &Beacon{
		Identity: Identity{
			UUID:  formatUUID(payload[start+4 : start+20]),
			Major: major,
			Minor: minor,
		},
		CalibratedPower: power,
		RSSI:            rssi,
		Distance:        distance,
		Proximity:       ClassifyProximity(distance),
		Address:         address,
	}, true
}

// formatUUID renders 16 raw bytes as the canonical lowercase hyphenated
// 8-4-4-4-12 form.
func formatUUID(raw []byte) string {
	h := hex.EncodeToString(raw)
	return h[:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:]
}
