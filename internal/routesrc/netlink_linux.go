//go:build linux

package routesrc

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"

	"github.com/mvarner/route6watch/internal/routetab"
)

// sizeof(struct rtmsg) from linux/rtnetlink.h: family, dst_len,
// src_len, tos, table, protocol, scope, type, and a u32 of flags.
const rtmsgLen = 12

// netlinkRoutes dumps the kernel's main IPv6 routing table over
// rtnetlink and maps each route into the same shape the procfs table
// carries: destination prefix, netmask, next-hop router.
func netlinkRoutes(ctx context.Context) ([]routetab.Route, error) {
	conn, err := netlink.Dial(unix.NETLINK_ROUTE, nil)
	if err != nil {
		return nil, fmt.Errorf("dial rtnetlink: %w", err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	req := make([]byte, rtmsgLen)
	req[0] = unix.AF_INET6

	msgs, err := conn.Execute(netlink.Message{
		Header: netlink.Header{
			Type:  unix.RTM_GETROUTE,
			Flags: netlink.Request | netlink.Dump,
		},
		Data: req,
	})
	if err != nil {
		return nil, fmt.Errorf("route dump: %w", err)
	}

	var routes []routetab.Route
	for _, m := range msgs {
		if m.Header.Type != unix.RTM_NEWROUTE {
			continue
		}
		rt, ok, err := routeFromMessage(m.Data)
		if err != nil {
			return nil, fmt.Errorf("route dump: %w", err)
		}
		if ok {
			routes = append(routes, rt)
		}
	}
	return routes, nil
}

// routeFromMessage decodes one RTM_NEWROUTE payload. Routes outside
// the main table are skipped.
func routeFromMessage(data []byte) (routetab.Route, bool, error) {
	if len(data) < rtmsgLen {
		return routetab.Route{}, false, fmt.Errorf("short rtmsg: %d bytes", len(data))
	}
	family := data[0]
	dstLen := int(data[1])
	table := data[4]

	if family != unix.AF_INET6 {
		return routetab.Route{}, false, fmt.Errorf("%w: family %d", routetab.ErrAddrFamily, family)
	}
	if table != unix.RT_TABLE_MAIN {
		return routetab.Route{}, false, nil
	}

	rt := routetab.Route{
		Prefix: netip.IPv6Unspecified(),
		Router: netip.IPv6Unspecified(),
	}
	var err error
	if rt.Netmask, err = routetab.MaskFromBits(dstLen); err != nil {
		return routetab.Route{}, false, err
	}

	ad, err := netlink.NewAttributeDecoder(data[rtmsgLen:])
	if err != nil {
		return routetab.Route{}, false, err
	}
	for ad.Next() {
		switch ad.Type() {
		case unix.RTA_DST:
			rt.Prefix, err = addrFromBytes(ad.Bytes())
		case unix.RTA_GATEWAY:
			rt.Router, err = addrFromBytes(ad.Bytes())
		}
		if err != nil {
			return routetab.Route{}, false, err
		}
	}
	if err := ad.Err(); err != nil {
		return routetab.Route{}, false, err
	}
	return rt, true, nil
}

func addrFromBytes(b []byte) (netip.Addr, error) {
	addr, ok := netip.AddrFromSlice(b)
	if !ok {
		return netip.Addr{}, fmt.Errorf("bad address length %d", len(b))
	}
	if !addr.Is6() {
		return netip.Addr{}, fmt.Errorf("%w: %s", routetab.ErrAddrFamily, addr)
	}
	return addr, nil
}
