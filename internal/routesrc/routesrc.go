// Package routesrc obtains IPv6 routing table snapshots, either from a
// procfs-style text file or from the kernel directly over rtnetlink.
package routesrc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mvarner/route6watch/internal/routetab"
)

// DefaultTablePath is where the procfs routing table mount exposes the
// IPv6 table.
const DefaultTablePath = "/proc/net/route/ipv6"

var ErrNetlinkUnavailable = errors.New("netlink route dump requires linux")

type Options struct {
	// TablePath is the procfs table file; DefaultTablePath if empty.
	TablePath string
	// Method: "" or "auto" (default), "procfs", "netlink"
	Method string
}

type Lister struct {
	opt Options
}

func New(opt Options) *Lister {
	if opt.TablePath == "" {
		opt.TablePath = DefaultTablePath
	}
	if opt.Method == "" {
		opt.Method = "auto"
	}
	return &Lister{opt: opt}
}

// Routes returns one snapshot of the IPv6 routing table.
func (l *Lister) Routes(ctx context.Context) ([]routetab.Route, error) {
	switch l.opt.Method {
	case "auto":
		// Prefer the procfs table when it exists; fall back to a
		// kernel dump on Linux.
		if _, err := os.Stat(l.opt.TablePath); err == nil {
			return readProcfs(l.opt.TablePath)
		}
		if runtime.GOOS == "linux" {
			return netlinkRoutes(ctx)
		}
		return nil, fmt.Errorf("no routing table at %s and no netlink fallback on %s", l.opt.TablePath, runtime.GOOS)
	case "procfs":
		return readProcfs(l.opt.TablePath)
	case "netlink":
		return netlinkRoutes(ctx)
	default:
		return nil, fmt.Errorf("unknown route source %q", l.opt.Method)
	}
}

func readProcfs(path string) ([]routetab.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	routes, err := routetab.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return routes, nil
}
