package obfuscate

import (
	"fmt"
	"io"
	"log"
	"math"

	"github.com/davecgh/go-spew/spew"

	"apobfuscate/internal/diagnostic"
	"apobfuscate/internal/document"
	"apobfuscate/internal/indirect"
	"apobfuscate/internal/resolve"
	"apobfuscate/internal/scalar"
)

// Output is the result of a pipeline run.
type Output struct {
	Data []byte
	// Seed is the indirection seed; passing it back reproduces Data.
	Seed      int64
	Documents int
	// Escaped counts string scalars written as unicode escapes.
	Escaped int
	// Results holds the indirection summary of each document.
	Results []*indirect.Result
	// Verified is the number of rolls each document was checked with.
	Verified int
}

// Diagnostics merges the findings of every document.
func (o *Output) Diagnostics() diagnostic.Diagnostics {
	var all diagnostic.Diagnostics

	for _, r := range o.Results {
		all.Merge(r.Diagnostics)
	}

	return all
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Run transforms a YAML stream.
func Run(input []byte, cfg Config) (*Output, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	docs, err := document.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	var originals []*document.Node
	if cfg.Verify > 0 {
		for _, d := range docs {
			originals = append(originals, d.Clone())
		}
	}

	engineCfg := cfg.Engine
	if engineCfg.Logger == nil {
		engineCfg.Logger = logger
	}

	engine := indirect.New(cfg.Policy, engineCfg)
	out := &Output{Seed: engine.Seed(), Documents: len(docs)}

	for i, d := range docs {
		if cfg.Indirect {
			res, err := engine.Apply(d)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i+1, err)
			}

			out.Results = append(out.Results, res)
			logger.Printf("document %d: %d options rewritten, %d triggers added",
				i+1, countWrapped(res), res.TriggersAdded)
		}

		if cfg.EscapeScalars {
			scalar.Obfuscate(d, scalar.Options{EscapeKeys: cfg.EscapeKeys})
			out.Escaped += scalar.Count(d)
		}
	}

	if cfg.Verbose {
		logger.Printf("debug: transformed documents:\n%s", dumper.Sdump(docs))
	}

	emit := document.Emit
	if cfg.Compact {
		emit = document.EmitCompact
	}

	out.Data, err = emit(docs)
	if err != nil {
		return nil, fmt.Errorf("emitting output: %w", err)
	}

	err = checkRoundTrip(out.Data, docs)
	if err != nil {
		return nil, err
	}

	if cfg.Verify > 0 {
		err = verify(originals, docs, cfg.Verify, out.Seed)
		if err != nil {
			return nil, err
		}

		out.Verified = cfg.Verify
		logger.Printf("verified %d documents over %d rolls", len(docs), cfg.Verify)
	}

	return out, nil
}

func checkRoundTrip(data []byte, docs []*document.Node) error {
	back, err := document.Parse(data)
	if err != nil {
		return &RoundTripError{Diff: err.Error()}
	}

	if len(back) != len(docs) {
		return &RoundTripError{Diff: fmt.Sprintf("%d documents written, %d read back", len(docs), len(back))}
	}

	for i := range docs {
		if d := document.Diff(docs[i], back[i]); d != "" {
			return &RoundTripError{Doc: i + 1, Diff: d}
		}
	}

	return nil
}

// Tolerance returns the largest frequency difference accepted when
// comparing two samples of n rolls.
func Tolerance(n int) float64 {
	if n <= 0 {
		return 1
	}

	return 4 * math.Sqrt(0.5/float64(n))
}

func verify(originals, docs []*document.Node, n int, seed int64) error {
	for i := range docs {
		want, err := resolve.Sample(originals[i], n, seed)
		if err != nil {
			return fmt.Errorf("verifying document %d: rolling input: %w", i+1, err)
		}

		got, err := resolve.Sample(docs[i], n, seed+1)
		if err != nil {
			return fmt.Errorf("verifying document %d: rolling output: %w", i+1, err)
		}

		if mismatches := want.Compare(got, Tolerance(n)); len(mismatches) > 0 {
			return &DistributionError{Doc: i + 1, Mismatches: mismatches}
		}
	}

	return nil
}

func countWrapped(res *indirect.Result) int {
	n := 0
	for _, keys := range res.Wrapped {
		n += len(keys)
	}

	return n
}
