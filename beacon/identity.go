package beacon

import "fmt"

// Identity is the three-part identity a beacon broadcasts. Two beacons are
// the same beacon iff their identities are equal; RSSI, distance and address
// never participate in equality.
type Identity struct {
	UUID  string `json:"uuid"`
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

// Key returns a stable map key for the identity.
func (id Identity) Key() string {
	return fmt.Sprintf("%s/%d/%d", id.UUID, id.Major, id.Minor)
}

func (id Identity) String() string {
	return id.Key()
}
