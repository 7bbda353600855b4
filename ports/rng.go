package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// TaskStream creates the private generator of one permutation task.
	// The stream depends only on (baseSeed, task), never on scheduling order,
	// and distinct tasks under one base seed get distinct generator states.
	TaskStream(ctx context.Context, baseSeed uint32, task int) (*rand.Rand, error)
}
