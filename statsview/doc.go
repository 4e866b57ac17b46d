// Package statsview is an optional runtime statistics server, built only
// when the statsview build tag is present.
//
// Underlying functionality is provided by "github.com/go-echarts/statsview".
// The graphs are served at PAGE_PATH, and standard Go pprof statistics at
// /debug/pprof/, on DEFAULT_ADDRESS unless another address is given.
package statsview

const (
	DEFAULT_ADDRESS = "localhost:12608"  // Listening address.
	PAGE_PATH       = "/debug/statsview" // Path of the graphs page.
)
