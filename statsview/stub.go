//go:build !statsview

package statsview

import (
	"context"

	"github.com/retroenv/retrogolib/log"
)

// Launch does nothing without the statsview build tag.
func Launch(ctx context.Context, logger *log.Logger, addr string) (page string) {
	return
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
