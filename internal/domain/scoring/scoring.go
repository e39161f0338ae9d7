// Package scoring defines the contract for deriving accuracy scores at reveal time.
package scoring

import (
	"context"
	"fmt"

	"github.com/veilcast/veilcast/internal/domain/model"
)

// Default scoring configuration constants.
const (
	// BaselineAccuracy mirrors the reference contract's placeholder score:
	// a flat 50.00% that ignores the encrypted prediction entirely.
	BaselineAccuracy = 5000

	// defaultErrorScale converts one unit of absolute prediction error
	// into accuracy points lost.
	defaultErrorScale = 1
)

// Input abstracts the record fields needed for scoring.
type Input struct {
	RecordID    uint64
	Handles     model.HandlePair
	ActualValue int64
}

// Result contains the computed accuracy for a record.
type Result struct {
	RecordID uint64
	Accuracy int64
}

// Scorer computes an accuracy score in [0, model.MaxAccuracy] from an input.
type Scorer interface {
	// Score computes an accuracy score, honoring ctx for cancellation.
	Score(ctx context.Context, in Input) (Result, error)
}

// Option applies a configuration option to a scorer.
type Option func(*settings)

type settings struct {
	baseline int64
	scale    int64
}

// WithBaselineAccuracy overrides the flat accuracy returned by the
// baseline scorer.
func WithBaselineAccuracy(accuracy int64) Option {
	return func(s *settings) {
		if accuracy >= 0 && accuracy <= model.MaxAccuracy {
			s.baseline = accuracy
		}
	}
}

// WithErrorScale sets how many accuracy points one unit of absolute
// prediction error costs.
func WithErrorScale(scale int64) Option {
	return func(s *settings) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// Baseline implements Scorer with the reference placeholder policy: every
// revealed prediction gets the same flat score. Kept as the default so the
// demo stays bit-compatible with the original contract; real deployments
// should inject AbsoluteError or supply the true score via an accuracy
// correction.
type Baseline struct {
	accuracy int64
}

// NewBaseline creates a baseline scorer with configuration options.
func NewBaseline(opts ...Option) *Baseline {
	s := settings{baseline: BaselineAccuracy, scale: defaultErrorScale}
	for _, opt := range opts {
		opt(&s)
	}
	return &Baseline{accuracy: s.baseline}
}

// Score returns the flat baseline accuracy.
func (b *Baseline) Score(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("scoring cancelled: %w", ctx.Err())
	default:
	}
	return Result{RecordID: in.RecordID, Accuracy: b.accuracy}, nil
}

// DecryptFunc turns an encrypted-value handle back into a plaintext number.
// It is the boundary to the external encryption subsystem; this core never
// implements it.
type DecryptFunc func(ctx context.Context, h model.Handle) (int64, error)

// AbsoluteError implements Scorer by decrypting the primary handle through
// an injected capability and scoring
//
//	accuracy = MaxAccuracy − min(MaxAccuracy, |predicted − actual| × scale).
type AbsoluteError struct {
	decrypt DecryptFunc
	scale   int64
}

// NewAbsoluteError creates an absolute-error scorer with configuration options.
func NewAbsoluteError(decrypt DecryptFunc, opts ...Option) *AbsoluteError {
	s := settings{baseline: BaselineAccuracy, scale: defaultErrorScale}
	for _, opt := range opts {
		opt(&s)
	}
	return &AbsoluteError{decrypt: decrypt, scale: s.scale}
}

// Score decrypts the predicted value and penalizes by absolute error.
func (a *AbsoluteError) Score(ctx context.Context, in Input) (Result, error) {
	if a.decrypt == nil {
		return Result{}, fmt.Errorf("no decrypt capability configured")
	}
	predicted, err := a.decrypt(ctx, in.Handles.Value)
	if err != nil {
		return Result{}, fmt.Errorf("decrypt predicted value for record %d: %w", in.RecordID, err)
	}

	// Absolute difference in uint64 space so extreme predictions cannot
	// overflow the subtraction.
	var diff uint64
	if predicted >= in.ActualValue {
		diff = uint64(predicted) - uint64(in.ActualValue)
	} else {
		diff = uint64(in.ActualValue) - uint64(predicted)
	}

	penalty := uint64(model.MaxAccuracy)
	if diff <= uint64(model.MaxAccuracy/a.scale) {
		penalty = diff * uint64(a.scale)
		if penalty > model.MaxAccuracy {
			penalty = model.MaxAccuracy
		}
	}

	return Result{RecordID: in.RecordID, Accuracy: model.MaxAccuracy - int64(penalty)}, nil
}
