package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"excel-comparator/core/logger"
	"excel-comparator/core/table"
	"excel-comparator/feature/lookup"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoMatchers is returned for a request without matcher tables.
	ErrNoMatchers = errors.New("no matcher tables")
	// ErrNoComparisons is returned for a request without comparisons.
	ErrNoComparisons = errors.New("no comparisons")
)

// Named is a matcher table and the name its report is filed under.
type Named struct {
	Name  string
	Table *table.Table
}

// Comparison is one lookup of Column against MatcherColumn.
type Comparison struct {
	Column string
	// MatcherColumn defaults to Column.
	MatcherColumn string
	LookupColumns []string
}

func (c Comparison) matcherColumn() string {
	if c.MatcherColumn == "" {
		return c.Column
	}
	return c.MatcherColumn
}

// Request describes a comparison run.
type Request struct {
	Subject     *table.Table
	Matchers    []Named
	Comparisons []Comparison
	// Strategy overrides the configured strategy.
	Strategy string
}

// Summary counts the outcomes of one comparison.
type Summary struct {
	Comparison Comparison
	Matches    int
	Mismatches int
	NotFound   int
	Duration   time.Duration
}

// Report is the outcome of all comparisons against one matcher.
type Report struct {
	Matcher string
	// Output is a copy of the subject holding one match column per comparison.
	Output    *table.Table
	Summaries []Summary
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Strategy string
	Reports  []Report
	Duration time.Duration
}

// Service runs comparison requests.
type Service struct {
	cfg    Config
	logger *zap.Logger
}

// NewService creates a new comparison service.
func NewService(cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, logger: logger}
}

type task struct {
	matcher    int
	comparison int
}

// Run executes every comparison of req against every matcher.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Subject == nil {
		return nil, errors.New("no subject table")
	}
	if len(req.Matchers) == 0 {
		return nil, ErrNoMatchers
	}
	if len(req.Comparisons) == 0 {
		return nil, ErrNoComparisons
	}

	name := req.Strategy
	if name == "" {
		name = s.cfg.Strategy
	}
	if name == "" {
		name = lookup.SetJoinName
	}
	strategy, err := lookup.ByName(name)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := s.logger.With(zap.String("run_id", runID), zap.String("strategy", name))
	done := logger.Track(log, "Comparison run",
		zap.String("subject", req.Subject.Name()),
		zap.Int("matchers", len(req.Matchers)),
		zap.Int("comparisons", len(req.Comparisons)))
	start := time.Now()

	matches := make([][][]string, len(req.Matchers))
	durations := make([][]time.Duration, len(req.Matchers))
	tasks := make([]task, 0, len(req.Matchers)*len(req.Comparisons))
	for m := range req.Matchers {
		matches[m] = make([][]string, len(req.Comparisons))
		durations[m] = make([]time.Duration, len(req.Comparisons))
		for c := range req.Comparisons {
			tasks = append(tasks, task{matcher: m, comparison: c})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Workers > 0 {
		g.SetLimit(s.cfg.Workers)
	}
	for _, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matcher := req.Matchers[t.matcher]
			cmp := req.Comparisons[t.comparison]

			began := time.Now()
			out, err := strategy(req.Subject, matcher.Table, cmp.Column, cmp.matcherColumn(), cmp.LookupColumns)
			if err != nil {
				return fmt.Errorf("compare %q against %s: %w", cmp.Column, matcher.Name, err)
			}
			// Each task owns its slot.
			matches[t.matcher][t.comparison] = out
			durations[t.matcher][t.comparison] = time.Since(began)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Comparison run failed", zap.Error(err))
		return nil, err
	}

	res := &Result{RunID: runID, Strategy: name, Reports: make([]Report, len(req.Matchers))}
	for m, matcher := range req.Matchers {
		report, err := assemble(req.Subject, matcher.Name, req.Comparisons, matches[m], durations[m])
		if err != nil {
			return nil, err
		}
		for _, sum := range report.Summaries {
			log.Info("Comparison finished",
				zap.String("matcher", matcher.Name),
				zap.String("column", sum.Comparison.Column),
				zap.Strings("lookup", sum.Comparison.LookupColumns),
				zap.Int("matches", sum.Matches),
				zap.Int("mismatches", sum.Mismatches),
				zap.Int("not_found", sum.NotFound),
				zap.Duration("duration", sum.Duration))
		}
		res.Reports[m] = report
	}
	res.Duration = time.Since(start)
	done(zap.Int("reports", len(res.Reports)))
	return res, nil
}

// assemble writes the match columns of one matcher into a copy of subject.
func assemble(subject *table.Table, matcher string, comparisons []Comparison, matches [][]string, durations []time.Duration) (Report, error) {
	out, err := table.FromColumns(matcher, subject.Columns(), columns(subject))
	if err != nil {
		return Report{}, err
	}
	report := Report{Matcher: matcher, Output: out, Summaries: make([]Summary, len(comparisons))}
	for c, cmp := range comparisons {
		if err := lookup.AddMatches(out, cmp.Column, matches[c]); err != nil {
			return Report{}, fmt.Errorf("add matches for %q: %w", cmp.Column, err)
		}
		sum := Summarize(matches[c])
		sum.Comparison = cmp
		sum.Duration = durations[c]
		report.Summaries[c] = sum
	}
	return report, nil
}

func columns(t *table.Table) [][]string {
	out := make([][]string, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		values, _ := t.Column(c)
		out = append(out, values)
	}
	return out
}

// Summarize counts the outcomes in a match column.
func Summarize(matches []string) Summary {
	var sum Summary
	for _, m := range matches {
		switch m {
		case lookup.MatchValue:
			sum.Matches++
		case lookup.NotFoundValue:
			sum.NotFound++
		default:
			sum.Mismatches++
		}
	}
	return sum
}
