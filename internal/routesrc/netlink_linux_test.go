//go:build linux

package routesrc

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"

	"github.com/mvarner/route6watch/internal/routetab"
)

func rtmsgPayload(t *testing.T, family byte, dstLen byte, table byte, attrs []netlink.Attribute) []byte {
	t.Helper()
	data := make([]byte, rtmsgLen)
	data[0] = family
	data[1] = dstLen
	data[4] = table

	ab, err := netlink.MarshalAttributes(attrs)
	if err != nil {
		t.Fatalf("MarshalAttributes: %v", err)
	}
	return append(data, ab...)
}

func TestRouteFromMessage(t *testing.T) {
	dst := netip.MustParseAddr("2001:db8::").As16()
	gw := netip.MustParseAddr("fe80::1").As16()

	data := rtmsgPayload(t, unix.AF_INET6, 64, unix.RT_TABLE_MAIN, []netlink.Attribute{
		{Type: unix.RTA_DST, Data: dst[:]},
		{Type: unix.RTA_GATEWAY, Data: gw[:]},
	})

	rt, ok, err := routeFromMessage(data)
	if err != nil {
		t.Fatalf("routeFromMessage error: %v", err)
	}
	if !ok {
		t.Fatal("routeFromMessage skipped a main-table route")
	}
	want := routetab.Route{
		Prefix:  netip.MustParseAddr("2001:db8::"),
		Netmask: netip.MustParseAddr("ffff:ffff:ffff:ffff::"),
		Router:  netip.MustParseAddr("fe80::1"),
	}
	if rt != want {
		t.Errorf("routeFromMessage = %v, want %v", rt, want)
	}
}

// A route with no RTA_DST is the default route; no RTA_GATEWAY means
// on-link. Both map to the unspecified address.
func TestRouteFromMessageDefaults(t *testing.T) {
	data := rtmsgPayload(t, unix.AF_INET6, 0, unix.RT_TABLE_MAIN, nil)

	rt, ok, err := routeFromMessage(data)
	if err != nil {
		t.Fatalf("routeFromMessage error: %v", err)
	}
	if !ok {
		t.Fatal("routeFromMessage skipped a main-table route")
	}
	unspec := netip.IPv6Unspecified()
	if rt.Prefix != unspec || rt.Netmask != unspec || rt.Router != unspec {
		t.Errorf("routeFromMessage = %v, want all-unspecified", rt)
	}
}

func TestRouteFromMessageSkipsOtherTables(t *testing.T) {
	data := rtmsgPayload(t, unix.AF_INET6, 0, unix.RT_TABLE_LOCAL, nil)

	_, ok, err := routeFromMessage(data)
	if err != nil {
		t.Fatalf("routeFromMessage error: %v", err)
	}
	if ok {
		t.Error("routeFromMessage kept a local-table route")
	}
}

func TestRouteFromMessageWrongFamily(t *testing.T) {
	data := rtmsgPayload(t, unix.AF_INET, 0, unix.RT_TABLE_MAIN, nil)

	_, _, err := routeFromMessage(data)
	if !errors.Is(err, routetab.ErrAddrFamily) {
		t.Errorf("routeFromMessage error = %v, want ErrAddrFamily", err)
	}
}

func TestRouteFromMessageShortPayload(t *testing.T) {
	if _, _, err := routeFromMessage(make([]byte, 4)); err == nil {
		t.Error("expected error for short rtmsg, got nil")
	}
}
