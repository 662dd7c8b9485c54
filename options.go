package metacache

// defaultCapacity is the builder staging buffer size used when Open is
// not given WithCapacity, matching the typical capacity called out for
// the command builder.
const defaultCapacity = 1024

// Option configures a Client at Open time.
type Option func(*openConfig)

type openConfig struct {
	capacity int
}

// WithCapacity sets the Command Builder's staging buffer size. capacity
// must be at least 1; Open panics otherwise, matching the builder's own
// contract.
func WithCapacity(capacity int) Option {
	return func(c *openConfig) {
		c.capacity = capacity
	}
}

func resolveOptions(opts []Option) openConfig {
	cfg := openConfig{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
