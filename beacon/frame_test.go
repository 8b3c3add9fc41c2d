package beacon_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srg/lantern/beacon"
	"github.com/srg/lantern/internal/testutils"
)

func TestDecodeWellFormedFrame(t *testing.T) {
	payload := testutils.NewPayloadBuilder().
		WithUUID("e2c56db5-dffb-48d2-b060-d0f5a71096e0").
		WithMajor(1).
		WithMinor(100).
		WithCalibratedPower(-59).
		Build()

	b, ok := beacon.Decode(payload, -65, "AA:BB:CC:DD:EE:FF")

	require.True(t, ok)
	assert.Equal(t, "e2c56db5-dffb-48d2-b060-d0f5a71096e0", b.UUID)
	assert.Equal(t, uint16(1), b.Major)
	assert.Equal(t, uint16(100), b.Minor)
	assert.Equal(t, int8(-59), b.CalibratedPower)
	assert.Equal(t, -65, b.RSSI)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", b.Address)
	// Far-field branch: ratio = -65/-59 ≈ 1.1017 ≥ 1.0.
	assert.InDelta(t, 2.0097, b.Distance, 0.001)
	assert.Equal(t, beacon.ProximityNear, b.Proximity)
}

func TestDecodeMarkerSearchWindow(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		wantOK bool
	}{
		{name: "marker at offset 2 (no leading structures)", prefix: nil, wantOK: true},
		{name: "marker at offset 3", prefix: []byte{0x00}, wantOK: true},
		{name: "marker at offset 4", prefix: []byte{0x00, 0x00}, wantOK: true},
		{name: "marker at offset 5 (flags structure)", prefix: []byte{0x02, 0x01, 0x06}, wantOK: true},
		{name: "marker at offset 6 is outside the window", prefix: []byte{0x02, 0x01, 0x06, 0x00}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := testutils.NewPayloadBuilder().WithPrefix(tt.prefix...).Build()

			_, ok := beacon.Decode(payload, -50, "")

			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDecodeRejectsNonBeaconPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "empty payload", payload: nil},
		{name: "too short to hold the marker", payload: []byte{0x02, 0x01, 0x06}},
		{name: "marker bytes absent", payload: testutils.NewPayloadBuilder().WithoutMarker().Build()},
		{name: "truncated after the marker", payload: testutils.NewPayloadBuilder().TruncatedBy(10).Build()},
		{name: "truncated by a single byte", payload: testutils.NewPayloadBuilder().TruncatedBy(1).Build()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := beacon.Decode(tt.payload, -50, "")

			assert.False(t, ok)
			assert.Nil(t, b)
		})
	}
}

func TestDecodeSignedCalibratedPower(t *testing.T) {
	// 0xC5 as an unsigned byte is 197; as two's complement it is -59.
	payload := testutils.NewPayloadBuilder().WithCalibratedPower(-59).Build()

	b, ok := beacon.Decode(payload, -59, "")

	require.True(t, ok)
	assert.Equal(t, int8(-59), b.CalibratedPower)
}

func TestDecodeBigEndianFields(t *testing.T) {
	payload := testutils.NewPayloadBuilder().
		WithMajor(0x0102).
		WithMinor(0xFFFE).
		Build()

	b, ok := beacon.Decode(payload, -50, "")

	require.True(t, ok)
	assert.Equal(t, uint16(0x0102), b.Major)
	assert.Equal(t, uint16(0xFFFE), b.Minor)
}

func TestDecodeFieldRoundTrip(t *testing.T) {
	// Rebuilding a payload from the decoded fields must reproduce the
	// structured fields byte for byte.
	const uuid = "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	original := testutils.NewPayloadBuilder().
		WithUUID(uuid).
		WithMajor(4660).
		WithMinor(22136).
		WithCalibratedPower(-70).
		Build()

	decoded, ok := beacon.Decode(original, -55, "")
	require.True(t, ok)

	rebuilt := testutils.NewPayloadBuilder().
		WithUUID(decoded.UUID).
		WithMajor(decoded.Major).
		WithMinor(decoded.Minor).
		WithCalibratedPower(decoded.CalibratedPower).
		Build()

	assert.Equal(t, original, rebuilt)

	// And the rendered UUID corresponds to the raw bytes in the payload.
	raw, err := hex.DecodeString(strings.ReplaceAll(decoded.UUID, "-", ""))
	require.NoError(t, err)
	assert.Len(t, raw, 16)
}
