// Package watcher periodically snapshots the IPv6 routing table,
// renders it, and logs changes between snapshots.
package watcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mvarner/route6watch/internal/config"
	"github.com/mvarner/route6watch/internal/routetab"
)

type RouteSource interface {
	Routes(ctx context.Context) ([]routetab.Route, error)
}

type Options struct {
	Config     config.Config
	Source     RouteSource
	Logger     *log.Logger
	Out        io.Writer
	StartDelay time.Duration
}

type Watcher struct {
	opt    Options
	prev   []routetab.Route
	primed bool
}

func New(opt Options) *Watcher {
	if opt.Logger == nil {
		opt.Logger = log.Default()
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	return &Watcher{opt: opt}
}

func (w *Watcher) Run(ctx context.Context) error {
	if w.opt.StartDelay > 0 {
		w.opt.Logger.Printf("start delay: %s", w.opt.StartDelay)
		t := time.NewTimer(w.opt.StartDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	// Always take one snapshot on startup.
	if err := w.snapshotOnce(ctx); err != nil {
		if w.opt.Config.OneShot || w.opt.Config.CheckInterval <= 0 {
			return err
		}
		w.opt.Logger.Printf("startup snapshot failed: %v", err)
	}

	if w.opt.Config.OneShot || w.opt.Config.CheckInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(w.opt.Config.CheckInterval)
	defer ticker.Stop()

	w.opt.Logger.Printf("watching routing table every %s", w.opt.Config.CheckInterval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.snapshotOnce(ctx); err != nil {
				w.opt.Logger.Printf("periodic snapshot failed: %v", err)
			}
		}
	}
}

// snapshotOnce reads the table, re-renders it when it changed since the
// previous snapshot, and logs the delta.
func (w *Watcher) snapshotOnce(ctx context.Context) error {
	routes, err := w.opt.Source.Routes(ctx)
	if err != nil {
		return fmt.Errorf("read routes: %w", err)
	}

	added, removed := diffRoutes(w.prev, routes)
	changed := !w.primed || len(added) > 0 || len(removed) > 0

	if w.primed {
		for _, rt := range added {
			w.opt.Logger.Printf("route added: %s", rt)
		}
		for _, rt := range removed {
			w.opt.Logger.Printf("route removed: %s", rt)
		}
		if !changed {
			w.opt.Logger.Printf("no route changes (%d entries)", len(routes))
		}
	} else {
		w.opt.Logger.Printf("routing table has %d entries", len(routes))
	}

	if changed {
		if err := render(w.opt.Out, w.opt.Config.OutputFormat, routes); err != nil {
			return fmt.Errorf("render routes: %w", err)
		}
	}

	w.prev = routes
	w.primed = true
	return nil
}

// diffRoutes compares snapshots on the full (prefix, netmask, router)
// triple.
func diffRoutes(prev, cur []routetab.Route) (added, removed []routetab.Route) {
	inPrev := make(map[routetab.Route]struct{}, len(prev))
	for _, rt := range prev {
		inPrev[rt] = struct{}{}
	}
	inCur := make(map[routetab.Route]struct{}, len(cur))
	for _, rt := range cur {
		inCur[rt] = struct{}{}
	}

	for _, rt := range cur {
		if _, ok := inPrev[rt]; !ok {
			added = append(added, rt)
		}
	}
	for _, rt := range prev {
		if _, ok := inCur[rt]; !ok {
			removed = append(removed, rt)
		}
	}
	return added, removed
}
