package signup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// User-facing outcome messages.
const (
	SuccessMessage = "Thank you! Your registration has been sent."
	InvalidMessage = "Please correct the errors in the form"
	FailureMessage = "Unable to send your registration. Please try again or contact us directly."
)

// Result is the outcome of one submission.
type Result struct {
	OK      bool
	Message string
	Fields  FieldErrors
	Err     error
}

// Submit normalizes and validates reg and, if valid, hands it to sender.
// It never panics on a sender failure; the failure is logged and reported.
func Submit(ctx context.Context, sender Sender, reg Registration, logger *zap.Logger) Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		var fe FieldErrors
		errors.As(err, &fe)
		return Result{Message: InvalidMessage, Fields: fe, Err: err}
	}
	if err := sender.Send(ctx, reg); err != nil {
		logger.Error("registration relay failed", zap.String("email", reg.Email), zap.Error(err))
		return Result{Message: FailureMessage, Err: err}
	}
	return Result{OK: true, Message: SuccessMessage}
}

// batchFile is the on-disk layout for queued registrations.
type batchFile struct {
	Registrations []Registration `yaml:"registrations"`
}

// LoadBatch reads queued registrations from YAML.
func LoadBatch(r io.Reader) ([]Registration, error) {
	var bf batchFile
	if err := yaml.NewDecoder(r).Decode(&bf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("signup: decoding batch: %w", err)
	}
	return bf.Registrations, nil
}

// SubmitAll submits regs with at most concurrency sends in flight. Results
// line up with regs.
func SubmitAll(ctx context.Context, sender Sender, regs []Registration, concurrency int, logger *zap.Logger) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(regs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range regs {
		g.Go(func() error {
			results[i] = Submit(gctx, sender, regs[i], logger)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
