// Package rng implements ports.RNGPort with SplitMix64-derived substreams.
//
// Concurrency: a *rand.Rand is not goroutine-safe. Every call returns a fresh
// generator owned by the caller; the adapter itself holds no state.
package rng

import (
	"context"
	"fmt"
	"math/rand/v2"

	"gostrata/domain/core"
)

// Adapter is a stateless ports.RNGPort
type Adapter struct{}

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream returns a generator for a named operation. The name is mixed
// into the seed so two operations sharing a seed do not share a stream.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(DeriveSeed(uint64(seed), uint64(hashString(name))), uint64(seed))), nil
}

// TaskStream returns the generator of permutation task index task
func (a *Adapter) TaskStream(ctx context.Context, baseSeed uint32, task int) (*rand.Rand, error) {
	if task < 0 {
		return nil, core.NewInvalidArgumentError("task", fmt.Sprintf("negative index %d", task))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(DeriveSeed(uint64(baseSeed), uint64(task)), uint64(task))), nil
}

// DeriveSeed mixes a parent seed and a stream index with the SplitMix64
// finalizer. For a fixed parent it is a bijection of stream, so distinct
// tasks never share a seed. Arithmetic wraps modulo 2^64.
func DeriveSeed(parent, stream uint64) uint64 {
	x := parent ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// hashString is djb2
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
