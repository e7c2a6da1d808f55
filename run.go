package stockparity

import (
	"context"
	"time"

	"github.com/retailops/stockparity/internal/sources/dwh"
	"github.com/retailops/stockparity/internal/sources/oms"
	"github.com/retailops/stockparity/internal/sources/snapshot"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/normalize"
	"github.com/retailops/stockparity/pkg/reconcile"
	"github.com/retailops/stockparity/pkg/report"
	"github.com/retailops/stockparity/pkg/sources"
	"github.com/rs/zerolog"
)

// Result is the outcome of one reconciliation run.
type Result struct {
	// Summary is the final accounting: record counts per source, key
	// states, metric counts, and the artifact location.
	Summary *report.Summary

	// Reconciliation holds the per-key detail for programmatic
	// consumers.
	Reconciliation *reconcile.Result

	// Rows are the diff rows written to the artifact, in artifact
	// order.
	Rows []report.Row
}

// Run executes one reconciliation using staged pipeline execution.
func (r *runner) Run(ctx context.Context) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := r.config
	runID := r.newRunID()
	log := r.logger.With().Str("run_id", runID).Logger()
	builder := report.NewSummaryBuilder(runID)

	// Step 1: Resolve the snapshot window
	window, err := cfg.ResolveWindow(r.now())
	if err != nil {
		return nil, err
	}
	builder.WithWindow(window)
	log.Info().Str("window", window.String()).Msg("Starting reconciliation")

	// Step 2: Resolve the reference time zone
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// Step 3: Resolve the two sides, preferring registered sources
	// over adapters built from configuration
	a, b, cleanup, err := r.buildSources()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil {
			log.Warn().Err(cleanupErr).Msg("Source cleanup errors occurred")
		}
	}()

	// Step 4: Fetch both sides concurrently
	rawA, rawB, err := sources.FetchBoth(ctx, a, b, window, cfg.FetchTimeout.Std())
	if err != nil {
		log.Error().Err(err).Msg("Fetch failed")
		return nil, err
	}
	log.Debug().
		Int(a.ID().String(), len(rawA)).
		Int(b.ID().String(), len(rawB)).
		Msg("Fetched raw records")

	// Step 5: Normalize each side, skipping bad records unless strict
	recordsA, skippedA, err := r.normalizeSide(log, a, rawA, loc)
	if err != nil {
		return nil, err
	}
	builder.WithSource(a.ID().String(), len(rawA), len(recordsA), skippedA)

	recordsB, skippedB, err := r.normalizeSide(log, b, rawB, loc)
	if err != nil {
		return nil, err
	}
	builder.WithSource(b.ID().String(), len(rawB), len(recordsB), skippedB)

	// Step 6: Join on (sku, location_id) and compare within tolerance
	comparator, err := reconcile.NewComparator(cfg.Tolerance.Tolerance(),
		reconcile.WithMissingPolicy(cfg.MissingPolicy()))
	if err != nil {
		return nil, err
	}
	engine, err := reconcile.New(
		reconcile.WithJoiner(reconcile.NewJoiner(
			reconcile.WithWindow(window),
			reconcile.WithCaseFolding(!cfg.KeyCaseSensitive),
		)),
		reconcile.WithComparator(comparator),
	)
	if err != nil {
		return nil, err
	}
	outcome := engine.Reconcile(recordsA, recordsB)

	// Step 7: Write the diff artifact
	rows := report.Build(outcome)
	format, err := cfg.Output.ArtifactFormat()
	if err != nil {
		return nil, err
	}
	artifact := cfg.Output.ArtifactPath(runID)
	if err := report.WriteFile(artifact, format, rows); err != nil {
		return nil, err
	}
	builder.WithArtifact(artifact, len(rows))

	// Step 8: Summarize, ending the run with a single structured line
	summary := builder.WithResult(outcome).Build()
	logSummary(log, summary)

	result := &Result{
		Summary:        summary,
		Reconciliation: outcome,
		Rows:           rows,
	}
	return result, outcome.Err()
}

// buildSources resolves the oms and dwh sides. Registered sources win;
// the rest are built from configuration and cleaned up by the returned
// function when the run ends.
func (r *runner) buildSources() (sources.Source, sources.Source, func() error, error) {
	var built []sources.Source
	cleanup := func() error {
		var first error
		for _, src := range built {
			if err := src.Cleanup(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	a, haveA := r.registry.Get(sources.OMSID)
	b, haveB := r.registry.Get(sources.DWHID)
	if haveA && haveB {
		return a, b, cleanup, nil
	}

	srcCfg := r.config.Sources
	if srcCfg.Snapshot != nil {
		omsSide, dwhSide, err := snapshot.Pair(srcCfg.Snapshot)
		if err != nil {
			return nil, nil, cleanup, err
		}
		if !haveA {
			a = omsSide
			built = append(built, omsSide)
		}
		if !haveB {
			b = dwhSide
			built = append(built, dwhSide)
		}
		return a, b, cleanup, nil
	}

	if !haveA {
		if srcCfg.OMS == nil {
			return nil, nil, cleanup, errors.NewConfigError("sources",
				"no oms source configured", nil)
		}
		side, err := oms.New(srcCfg.OMS)
		if err != nil {
			return nil, nil, cleanup, err
		}
		a = side
		built = append(built, side)
	}
	if !haveB {
		if srcCfg.DWH == nil {
			return nil, nil, cleanup, errors.NewConfigError("sources",
				"no dwh source configured", nil)
		}
		side, err := dwh.New(srcCfg.DWH)
		if err != nil {
			return nil, nil, cleanup, err
		}
		b = side
		built = append(built, side)
	}
	return a, b, cleanup, nil
}

// normalizeSide converts one side's raw rows into canonical records.
// Bad records are skipped, counted, and logged up to a cap; in strict
// mode the first bad record aborts the run.
func (r *runner) normalizeSide(log zerolog.Logger, src sources.Source, raws []normalize.Raw, loc *time.Location) ([]inventory.Record, int, error) {
	normalizer, err := normalize.New(src.Mapping(),
		normalize.WithTimezone(loc),
		normalize.WithPrecision(r.config.Precision),
		normalize.WithDerivePolicy(r.config.DerivePolicy()),
	)
	if err != nil {
		return nil, 0, err
	}

	id := src.ID().String()
	records := make([]inventory.Record, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		record, err := normalizer.Record(raw)
		if err != nil {
			if r.config.Strict {
				return nil, skipped, err
			}
			skipped++
			if skipped <= constants.MaxSkipLogged {
				log.Warn().Str("source", id).Err(err).Msg("Skipping record")
			}
			continue
		}
		records = append(records, record)
	}
	if skipped > constants.MaxSkipLogged {
		log.Warn().Str("source", id).
			Int("suppressed", skipped-constants.MaxSkipLogged).
			Msg("Further skipped records not logged")
	}
	return records, skipped, nil
}

// logSummary emits the end-of-run summary event. Findings raise the
// level to warn; the fields mirror the summary artifact.
func logSummary(log zerolog.Logger, s *report.Summary) {
	event := log.Info()
	if s.Findings {
		event = log.Warn()
	}
	event.
		Str("window", s.Window).
		Int("keys", s.TotalKeys).
		Int("within", s.MatchedWithin).
		Int("mismatched", s.Mismatched).
		Int("oms_only", s.OMSOnly).
		Int("dwh_only", s.DWHOnly).
		Int("diff_rows", s.DiffRows).
		Int("skipped", s.TotalSkipped()).
		Str("artifact", s.Artifact).
		Str("elapsed", s.Elapsed).
		Msg("Reconciliation complete")
}
