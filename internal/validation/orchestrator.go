package validation

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iamdantz/gemini-templates/internal/logging"
)

// Orchestrator runs a fixed set of validators over batches of files
type Orchestrator struct {
	validators []Validator
	logger     logrus.FieldLogger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger used for per-file tracing
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// NewOrchestrator creates an orchestrator; validators run in registration
// order for aggregation purposes
func NewOrchestrator(validators []Validator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		validators: validators,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validators returns the registered validators
func (o *Orchestrator) Validators() []Validator {
	return o.validators
}

// Run validates every file with every validator concurrently and returns
// one aggregated result per file, in input order.
func (o *Orchestrator) Run(ctx context.Context, files []FileContext) []Result {
	partial := make([][]Result, len(files))
	for i := range partial {
		partial[i] = make([]Result, len(o.validators))
	}

	var g errgroup.Group
	for i, fc := range files {
		for j, v := range o.validators {
			g.Go(func() error {
				partial[i][j] = o.invoke(ctx, v, fc)
				return nil
			})
		}
	}
	_ = g.Wait()

	results := make([]Result, len(files))
	for i, fc := range files {
		results[i] = Merge(partial[i]...)
		o.logger.WithFields(logrus.Fields{
			"file":     fc.FilePath,
			"valid":    results[i].Valid,
			"errors":   len(results[i].Errors),
			"warnings": len(results[i].Warnings),
		}).Debug("validated")
	}
	return results
}

func (o *Orchestrator) invoke(ctx context.Context, v Validator, fc FileContext) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(logrus.Fields{
				"validator": v.Name(),
				"file":      fc.FilePath,
			}).Errorf("validator panicked: %v", r)
			res = NewResult()
			res.AddError(fmt.Sprintf("%s: internal error: %v", v.Name(), r))
		}
	}()

	res = v.Validate(ctx, fc)
	if len(res.Errors) > 0 {
		res.Valid = false
	}
	return res
}
