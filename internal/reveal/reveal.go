// Package reveal stages the unlock animation as a sequence of awaitable
// steps. Each step runs under its own timeout; the first failure aborts the
// sequence with a fault.AssetFailure and the caller shows the message
// without animation.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/comigor/lovechest/internal/fault"
	"github.com/comigor/lovechest/internal/logger"
)

// DefaultTimeout bounds each stage when none is given.
const DefaultTimeout = 2500 * time.Millisecond

// Stage is one step of the reveal.
type Stage struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Sequence runs its stages in order.
type Sequence []Stage

// Run executes every stage. It stops at the first stage that fails, times out
// or sees ctx cancelled.
func (s Sequence) Run(ctx context.Context) error {
	log := logger.For("reveal")
	for _, st := range s {
		if err := ctx.Err(); err != nil {
			return fault.Asset(st.Name, err)
		}
		timeout := st.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		start := time.Now()
		if err := runStage(ctx, st, timeout); err != nil {
			log.Warn("reveal stage failed; falling back to static reveal", "stage", st.Name, "error", err)
			return fault.Asset(st.Name, err)
		}
		log.Debug("reveal stage done", "stage", st.Name, "elapsed", time.Since(start))
	}
	return nil
}

// runStage returns when the stage finishes or its deadline passes, whichever
// comes first. A stage ignoring ctx keeps running in the background.
func runStage(ctx context.Context, st Stage, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- st.Run(ctx) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Asset builds a stage that loads path from fsys and fails on a missing or
// empty file.
func Asset(fsys fs.FS, path string, timeout time.Duration) Stage {
	return Stage{
		Name:    "load " + path,
		Timeout: timeout,
		Run: func(ctx context.Context) error {
			if fsys == nil {
				return errors.New("no asset source configured")
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return fmt.Errorf("%s is empty", path)
			}
			return ctx.Err()
		},
	}
}

// Assets the chest animation needs, in playback order.
var Assets = []string{"assets/chest-open.svg", "assets/sparkles.svg"}

// Chest returns the standard open-chest reveal.
func Chest(fsys fs.FS, timeout time.Duration) Sequence {
	seq := make(Sequence, 0, len(Assets))
	for _, p := range Assets {
		seq = append(seq, Asset(fsys, p, timeout))
	}
	return seq
}
