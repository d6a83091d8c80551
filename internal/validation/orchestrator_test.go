package validation

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// fixedValidator returns the same verdict for every file, tagged with the
// file path so ordering can be checked
type fixedValidator struct {
	name     string
	errors   []string
	warnings []string
}

func (v fixedValidator) Name() string { return v.name }

func (v fixedValidator) Validate(_ context.Context, fc FileContext) Result {
	r := NewResult()
	for _, e := range v.errors {
		r.AddError(fc.FilePath + ":" + e)
	}
	for _, w := range v.warnings {
		r.AddWarning(fc.FilePath + ":" + w)
	}
	return r
}

type panickingValidator struct{}

func (panickingValidator) Name() string { return "Boom" }

func (panickingValidator) Validate(context.Context, FileContext) Result {
	panic("kaboom")
}

// sloppyValidator reports errors but forgets to clear Valid
type sloppyValidator struct{}

func (sloppyValidator) Name() string { return "Sloppy" }

func (sloppyValidator) Validate(context.Context, FileContext) Result {
	return Result{Valid: true, Errors: []string{"oops"}}
}

func TestOrchestrator_AggregatesInRegistrationOrder(t *testing.T) {
	o := NewOrchestrator([]Validator{
		fixedValidator{name: "first", errors: []string{"e1"}, warnings: []string{"w1"}},
		fixedValidator{name: "second"},
		fixedValidator{name: "third", errors: []string{"e2", "e3"}},
	})

	files := []FileContext{{FilePath: "a.md"}, {FilePath: "b.md"}}
	results := o.Run(context.Background(), files)

	require.Len(t, results, 2)
	for i, fc := range files {
		assert.False(t, results[i].Valid)
		assert.Equal(t, []string{fc.FilePath + ":e1", fc.FilePath + ":e2", fc.FilePath + ":e3"}, results[i].Errors)
		assert.Equal(t, []string{fc.FilePath + ":w1"}, results[i].Warnings)
	}
}

func TestOrchestrator_NoValidators(t *testing.T) {
	results := NewOrchestrator(nil).Run(context.Background(), []FileContext{{FilePath: "a.md"}})

	require.Len(t, results, 1)
	assert.True(t, results[0].Valid)
	assert.Empty(t, results[0].Errors)
}

func TestOrchestrator_EmptyBatch(t *testing.T) {
	o := NewOrchestrator([]Validator{NewStructureValidator()})
	assert.Empty(t, o.Run(context.Background(), nil))
}

func TestOrchestrator_PanicBecomesError(t *testing.T) {
	o := NewOrchestrator([]Validator{panickingValidator{}, fixedValidator{name: "ok", warnings: []string{"w"}}})

	results := o.Run(context.Background(), []FileContext{{FilePath: "a.md"}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	assert.Equal(t, []string{"Boom: internal error: kaboom"}, results[0].Errors)
	assert.Equal(t, []string{"a.md:w"}, results[0].Warnings)
}

func TestOrchestrator_WithLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	o := NewOrchestrator([]Validator{panickingValidator{}}, WithLogger(logger))
	o.Run(context.Background(), []FileContext{{FilePath: "a.md"}})

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{"validator panicked: kaboom", "validated"}, messages)
	assert.Equal(t, "a.md", hook.LastEntry().Data["file"])
	assert.Equal(t, false, hook.LastEntry().Data["valid"])
}

func TestOrchestrator_ErrorsForceInvalid(t *testing.T) {
	results := NewOrchestrator([]Validator{sloppyValidator{}}).Run(context.Background(), []FileContext{{FilePath: "a.md"}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
}

func TestOrchestrator_RealValidators(t *testing.T) {
	o := NewOrchestrator([]Validator{NewStructureValidator(), NewContentSafetyValidator()})

	results := o.Run(context.Background(), []FileContext{
		{FilePath: "ok.md", Content: "---\ntrigger: always_on\n---\nKeep functions small.\n"},
		{FilePath: "bad.md", Content: "no frontmatter, rm -rf / and eval(x)"},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Valid)
	assert.False(t, results[1].Valid)
	assert.Equal(t, []string{
		"Missing frontmatter",
		`Potentially malicious pattern detected: Destructive command "rm -rf" detected`,
	}, results[1].Errors)
	assert.Len(t, results[1].Warnings, 1)
}

func TestOrchestrator_AggregationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "validators")
		validators := make([]Validator, n)
		var wantErrors, wantWarnings int
		for i := range validators {
			errs := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 0, 3).Draw(rt, fmt.Sprintf("errors%d", i))
			warns := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 0, 3).Draw(rt, fmt.Sprintf("warnings%d", i))
			validators[i] = fixedValidator{name: fmt.Sprint(i), errors: errs, warnings: warns}
			wantErrors += len(errs)
			wantWarnings += len(warns)
		}
		files := rapid.IntRange(0, 4).Draw(rt, "files")

		batch := make([]FileContext, files)
		for i := range batch {
			batch[i] = FileContext{FilePath: fmt.Sprintf("f%d.md", i)}
		}

		results := NewOrchestrator(validators).Run(context.Background(), batch)

		require.Len(rt, results, files)
		for i, r := range results {
			require.Len(rt, r.Errors, wantErrors)
			require.Len(rt, r.Warnings, wantWarnings)
			require.Equal(rt, wantErrors == 0, r.Valid)

			// every message belongs to this file, in validator order
			var expected []string
			for _, v := range validators {
				for _, e := range v.(fixedValidator).errors {
					expected = append(expected, batch[i].FilePath+":"+e)
				}
			}
			if len(expected) > 0 {
				require.Equal(rt, expected, r.Errors)
			}
		}
	})
}

func TestMergeProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(rt, "n")
		inputs := make([]Result, n)
		allValid := true
		for i := range inputs {
			r := NewResult()
			for range rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("errors%d", i)) {
				r.AddError("e")
			}
			inputs[i] = r
			allValid = allValid && r.Valid
		}

		merged := Merge(inputs...)
		require.Equal(rt, allValid, merged.Valid)
		require.Equal(rt, len(merged.Errors) == 0, merged.Valid)
	})
}
