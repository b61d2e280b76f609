// Package routetab reads and writes the procfs IPv6 routing table text
// format. Each table entry is a group of three fixed-layout lines:
//
//	nnnn. target:  xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx
//	      netmask: xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx
//	      router:  xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx:xxxx
//
// The package parses no other format and performs no I/O beyond the
// stream it is handed.
package routetab

import (
	"errors"
	"fmt"
	"net/netip"
)

var (
	// ErrBadEntry reports a table entry that does not follow the
	// three-line layout or whose address text is not valid IPv6.
	ErrBadEntry = errors.New("malformed routing table entry")
	// ErrAddrFamily reports an address that converted cleanly but is
	// not an IPv6 address. It is kept distinct from ErrBadEntry so
	// callers can tell bad text from a wrong-family source.
	ErrAddrFamily = errors.New("route address is not IPv6")
)

// Route is one IPv6 routing table entry. The zero netmask matches
// everything (default route); an unspecified Router means the target is
// directly reachable.
type Route struct {
	Prefix  netip.Addr `json:"target"`
	Netmask netip.Addr `json:"netmask"`
	Router  netip.Addr `json:"router"`
}

// MarshalYAML implements yaml.Marshaler.
func (r Route) MarshalYAML() (interface{}, error) {
	return struct {
		Target  string `yaml:"target"`
		Netmask string `yaml:"netmask"`
		Router  string `yaml:"router"`
	}{r.Prefix.String(), r.Netmask.String(), r.Router.String()}, nil
}

func (r Route) String() string {
	return fmt.Sprintf("%s/%s via %s", r.Prefix, r.Netmask, r.Router)
}

// MaskFromBits returns the IPv6 netmask with the leading bits set, e.g.
// 64 -> ffff:ffff:ffff:ffff::.
func MaskFromBits(bits int) (netip.Addr, error) {
	if bits < 0 || bits > 128 {
		return netip.Addr{}, fmt.Errorf("prefix length %d out of range", bits)
	}
	var m [16]byte
	for i := 0; i < bits/8; i++ {
		m[i] = 0xff
	}
	if bits%8 != 0 {
		m[bits/8] = 0xff << (8 - bits%8)
	}
	return netip.AddrFrom16(m), nil
}
