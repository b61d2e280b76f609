//go:build !linux

package routesrc

import (
	"context"

	"github.com/mvarner/route6watch/internal/routetab"
)

func netlinkRoutes(ctx context.Context) ([]routetab.Route, error) {
	return nil, ErrNetlinkUnavailable
}
