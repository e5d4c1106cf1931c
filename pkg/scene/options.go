package scene

import "github.com/df07/go-raykernel/pkg/log"

// Option configures Commit.
type Option func(*options)

type options struct {
	cull     bool
	pairs    bool
	leafSize int
	logger   log.Logger
}

func defaultOptions() options {
	return options{pairs: true, leafSize: 4, logger: log.New("scene")}
}

// WithBackfaceCulling drops hits on triangles seen clockwise from the ray origin.
func WithBackfaceCulling(cull bool) Option {
	return func(o *options) { o.cull = cull }
}

// WithPairs controls whether adjacent triangles are merged into pairs.
func WithPairs(pairs bool) Option {
	return func(o *options) { o.pairs = pairs }
}

// WithLeafSize sets the number of primitives per BVH leaf, between 1 and 4.
func WithLeafSize(n int) Option {
	return func(o *options) {
		if n >= 1 && n <= 4 {
			o.leafSize = n
		}
	}
}

// WithLogger replaces the scene logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
