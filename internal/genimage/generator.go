// Package genimage produces background images for posts: a Gemini-backed
// generator, a deterministic placeholder, and combinators for bounded retry
// and fallback.
package genimage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable means the backend cannot be used at all; retrying is pointless.
	ErrUnavailable = errors.New("image backend unavailable")
	// ErrNoImage means the backend answered without image data.
	ErrNoImage = errors.New("no image data in response")
)

type Size struct {
	Width, Height int
}

// Generator turns a prompt into encoded image bytes (PNG or JPEG).
type Generator interface {
	Generate(ctx context.Context, prompt string, size Size) ([]byte, error)
}

type retrying struct {
	gen    Generator
	policy RetryPolicy
}

// WithRetry wraps gen so each Generate call runs under policy.
func WithRetry(gen Generator, policy RetryPolicy) Generator {
	return &retrying{gen: gen, policy: policy}
}

func (r *retrying) Generate(ctx context.Context, prompt string, size Size) ([]byte, error) {
	var out []byte
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		data, err := r.gen.Generate(ctx, prompt, size)
		if err != nil {
			return err
		}
		out = data
		return nil
	})
	return out, err
}

type fallback struct {
	primary, secondary Generator
	logger             *zap.Logger
}

// WithFallback returns a generator that uses secondary whenever primary
// fails for a reason other than context cancellation.
func WithFallback(primary, secondary Generator, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallback) Generate(ctx context.Context, prompt string, size Size) ([]byte, error) {
	data, err := f.primary.Generate(ctx, prompt, size)
	if err == nil {
		return data, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.logger.Warn("image generation failed, using fallback", zap.Error(err))

	data, ferr := f.secondary.Generate(ctx, prompt, size)
	if ferr != nil {
		return nil, fmt.Errorf("fallback after %v: %w", err, ferr)
	}
	return data, nil
}
