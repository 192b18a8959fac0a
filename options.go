package huffman

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chronos-tachyon/prefixcode/internal/options"
)

// BuildOption configures Build.
type BuildOption = options.Option[*buildConfig]

type buildConfig struct {
	logger      zerolog.Logger
	maxCodeSize byte
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		logger:      zerolog.Nop(),
		maxCodeSize: MaxCodeSize,
	}
}

// WithLogger sets the logger Build reports to.  Build logs at debug level
// only; the default logger discards everything.
func WithLogger(logger zerolog.Logger) BuildOption {
	return options.NoError(func(cfg *buildConfig) {
		cfg.logger = logger
	})
}

// WithMaxCodeSize limits the length of every code derived from the tree.
// Deriving codes from a tree deeper than this fails with ErrCodeTooLong.
func WithMaxCodeSize(size int) BuildOption {
	return options.New(func(cfg *buildConfig) error {
		if size < 1 || size > MaxCodeSize {
			return fmt.Errorf("huffman: max code size %d out of range [1, %d]", size, MaxCodeSize)
		}
		cfg.maxCodeSize = byte(size)
		return nil
	})
}
