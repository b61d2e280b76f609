package watcher

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/netip"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mvarner/route6watch/internal/config"
	"github.com/mvarner/route6watch/internal/routetab"
)

// sourceFunc adapts a function to the RouteSource interface.
type sourceFunc func(ctx context.Context) ([]routetab.Route, error)

func (f sourceFunc) Routes(ctx context.Context) ([]routetab.Route, error) { return f(ctx) }

func route(t *testing.T, prefix, netmask, router string) routetab.Route {
	t.Helper()
	return routetab.Route{
		Prefix:  netip.MustParseAddr(prefix),
		Netmask: netip.MustParseAddr(netmask),
		Router:  netip.MustParseAddr(router),
	}
}

func TestOneShotRendersSnapshot(t *testing.T) {
	routes := []routetab.Route{
		route(t, "2001:db8::", "ffff:ffff:ffff:ffff::", "fe80::1"),
	}

	var out bytes.Buffer
	w := New(Options{
		Config: config.Config{OneShot: true, OutputFormat: "table"},
		Source: sourceFunc(func(context.Context) ([]routetab.Route, error) {
			return routes, nil
		}),
		Logger: log.New(&bytes.Buffer{}, "", 0),
		Out:    &out,
	})

	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "2001:db8::") || !strings.Contains(got, "fe80::1") {
		t.Errorf("snapshot output missing routes:\n%s", got)
	}
}

func TestOneShotPropagatesSourceError(t *testing.T) {
	wantErr := errors.New("table unavailable")
	w := New(Options{
		Config: config.Config{OneShot: true},
		Source: sourceFunc(func(context.Context) ([]routetab.Route, error) {
			return nil, wantErr
		}),
		Logger: log.New(&bytes.Buffer{}, "", 0),
		Out:    &bytes.Buffer{},
	})

	if err := w.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Run error = %v, want %v", err, wantErr)
	}
}

func TestSnapshotLogsChanges(t *testing.T) {
	first := []routetab.Route{
		route(t, "2001:db8::", "ffff:ffff:ffff:ffff::", "fe80::1"),
		route(t, "fe80::", "ffff:ffff:ffff:ffff::", "::"),
	}
	second := []routetab.Route{
		first[0],
		route(t, "::", "::", "fe80::1"),
	}

	snapshots := [][]routetab.Route{first, second}
	var logs bytes.Buffer
	w := New(Options{
		Config: config.Config{OutputFormat: "table"},
		Source: sourceFunc(func(context.Context) ([]routetab.Route, error) {
			s := snapshots[0]
			snapshots = snapshots[1:]
			return s, nil
		}),
		Logger: log.New(&logs, "", 0),
		Out:    &bytes.Buffer{},
	})

	ctx := context.Background()
	if err := w.snapshotOnce(ctx); err != nil {
		t.Fatalf("first snapshot error: %v", err)
	}
	if err := w.snapshotOnce(ctx); err != nil {
		t.Fatalf("second snapshot error: %v", err)
	}

	got := logs.String()
	if !strings.Contains(got, "route added: ::/:: via fe80::1") {
		t.Errorf("missing added-route log:\n%s", got)
	}
	if !strings.Contains(got, "route removed: fe80::/ffff:ffff:ffff:ffff:: via ::") {
		t.Errorf("missing removed-route log:\n%s", got)
	}
}

func TestDiffRoutes(t *testing.T) {
	a := route(t, "2001:db8::", "ffff:ffff:ffff:ffff::", "fe80::1")
	b := route(t, "fe80::", "ffff:ffff:ffff:ffff::", "::")
	c := route(t, "::", "::", "fe80::1")

	added, removed := diffRoutes([]routetab.Route{a, b}, []routetab.Route{b, c})

	opts := cmpopts.EquateComparable(netip.Addr{})
	if diff := cmp.Diff([]routetab.Route{c}, added, opts); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]routetab.Route{a}, removed, opts); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffRoutesNoChange(t *testing.T) {
	a := route(t, "2001:db8::", "ffff:ffff:ffff:ffff::", "fe80::1")

	added, removed := diffRoutes([]routetab.Route{a}, []routetab.Route{a})
	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("diffRoutes = added %v, removed %v, want none", added, removed)
	}
}
