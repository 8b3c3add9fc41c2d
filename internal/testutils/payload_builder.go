package testutils

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultTestUUID is the proximity UUID payloads carry unless overridden.
const DefaultTestUUID = "e2c56db5-dffb-48d2-b060-d0f5a71096e0"

// PayloadBuilder assembles raw advertising-report payloads carrying the
// manufacturer-data beacon sub-structure, with knobs for malformed frames.
type PayloadBuilder struct {
	prefix   []byte
	company  [2]byte
	uuid     [16]byte
	major    uint16
	minor    uint16
	power    int8
	noMarker bool
	truncate int
}

// NewPayloadBuilder returns a builder for a well-formed frame: a flags AD
// structure followed by the beacon manufacturer data. The marker then sits
// at start offset 5, inside the decoder's search window.
func NewPayloadBuilder() *PayloadBuilder {
	b := &PayloadBuilder{
		prefix:  []byte{0x02, 0x01, 0x06},
		company: [2]byte{0x4c, 0x00},
		power:   -59,
	}
	return b.WithUUID(DefaultTestUUID)
}

// WithUUID sets the proximity UUID from its canonical hyphenated form.
// Panics on malformed input; builders are test-only.
func (b *PayloadBuilder) WithUUID(uuid string) *PayloadBuilder {
	raw, err := hex.DecodeString(strings.ReplaceAll(uuid, "-", ""))
	if err != nil || len(raw) != 16 {
		panic(fmt.Sprintf("testutils: bad uuid %q", uuid))
	}
	copy(b.uuid[:], raw)
	return b
}

func (b *PayloadBuilder) WithMajor(major uint16) *PayloadBuilder {
	b.major = major
	return b
}

func (b *PayloadBuilder) WithMinor(minor uint16) *PayloadBuilder {
	b.minor = minor
	return b
}

func (b *PayloadBuilder) WithCalibratedPower(power int8) *PayloadBuilder {
	b.power = power
	return b
}

// WithPrefix replaces the AD structures preceding the manufacturer data,
// shifting where the marker lands. A prefix longer than three bytes pushes
// the marker outside the decoder's search window.
func (b *PayloadBuilder) WithPrefix(prefix ...byte) *PayloadBuilder {
	b.prefix = prefix
	return b
}

// WithoutMarker corrupts the beacon type marker.
func (b *PayloadBuilder) WithoutMarker() *PayloadBuilder {
	b.noMarker = true
	return b
}

// TruncatedBy drops n bytes from the end of the built payload.
func (b *PayloadBuilder) TruncatedBy(n int) *PayloadBuilder {
	b.truncate = n
	return b
}

// Build assembles the payload bytes.
func (b *PayloadBuilder) Build() []byte {
	marker := []byte{0x02, 0x15}
	if b.noMarker {
		marker = []byte{0x03, 0x16}
	}

	payload := make([]byte, 0, len(b.prefix)+27)
	payload = append(payload, b.prefix...)
	payload = append(payload, 0x1a, 0xff) // length, manufacturer-data AD type
	payload = append(payload, b.company[:]...)
	payload = append(payload, marker...)
	payload = append(payload, b.uuid[:]...)
	payload = binary.BigEndian.AppendUint16(payload, b.major)
	payload = binary.BigEndian.AppendUint16(payload, b.minor)
	payload = append(payload, byte(b.power))

	if b.truncate > 0 {
		if b.truncate > len(payload) {
			return nil
		}
		payload = payload[:len(payload)-b.truncate]
	}
	return payload
}
