//go:build statsview

package statsview

import (
	"context"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Launch serves the statistics on addr until ctx is done.
// It returns the page address.
func Launch(ctx context.Context, logger *log.Logger, addr string) (page string) {
	if len(addr) == 0 {
		addr = DEFAULT_ADDRESS
	}

	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()

	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()

	go func() {
		err := mgr.Start()
		if err != nil && ctx.Err() == nil {
			logger.Error("Statsview failed", log.String("address", addr), log.Err(err))
		}
	}()

	page = "http://" + addr + PAGE_PATH
	logger.Info("Statsview started", log.String("page", page))

	return
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return true
}
