// Package beacon decodes proximity-beacon advertisement frames and derives
// distance and proximity estimates from them.
//
// The package is purely computational: it owns the wire format of the
// manufacturer-data beacon sub-structure, the empirical RSSI distance model
// and the Beacon record type, but holds no state. Tracking of live beacons
// lives in the monitor package.
package beacon
