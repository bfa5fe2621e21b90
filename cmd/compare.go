package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"excel-comparator/core/source"
	"excel-comparator/core/storage"
	"excel-comparator/core/table"
	"excel-comparator/feature/compare"
	"excel-comparator/feature/lookup"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	subjectProfile string
	subjectFile    string
	matcherNames   []string
	matcherFiles   []string
	columns        []string
	matcherColumns []string
	lookupColumns  []string
	strategyName   string
	workers        int
	outPath        string
	uploadFlag     bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a subject export against one or more matcher exports",
	Long: `Looks up every subject row in each matcher by the lookup columns and writes a
"(Matches) <column>" column holding "Match", the matcher's differing value, or
"Doesn't exist". Results are written to a new file; sources are never modified.`,
	Example: `  excel-comparator compare --subject prod --matcher staging_1 --matcher staging_2 \
    --column "Supplier Conclusion" --lookup "Supplier Id" --out reports/suppliers.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		comparisons, err := buildComparisons(columns, matcherColumns, lookupColumns)
		if err != nil {
			return err
		}

		var subject *table.Table
		switch {
		case subjectFile != "":
			subject, err = a.file(ctx, subjectFile)
		case subjectProfile != "":
			subject, err = a.profile(ctx, subjectProfile)
		default:
			return fmt.Errorf("one of --subject or --subject-file is required")
		}
		if err != nil {
			return fmt.Errorf("failed to load subject: %w", err)
		}

		var matchers []compare.Named
		for _, name := range matcherNames {
			t, err := a.profile(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to load matcher %s: %w", name, err)
			}
			matchers = append(matchers, compare.Named{Name: name, Table: t})
		}
		for _, path := range matcherFiles {
			t, err := a.file(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to load matcher %s: %w", path, err)
			}
			matchers = append(matchers, compare.Named{Name: t.Name(), Table: t})
		}
		matchers = uniqueMatchers(matchers)

		cfg := a.cfg.Compare
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		svc := compare.NewService(cfg, a.logger)
		res, err := svc.Run(ctx, compare.Request{
			Subject:     subject,
			Matchers:    matchers,
			Comparisons: comparisons,
			Strategy:    strategyName,
		})
		if err != nil {
			return err
		}

		printSummary(res)

		if outPath == "" {
			return nil
		}
		written, err := writeReports(outPath, res.Reports)
		if err != nil {
			return err
		}
		for _, path := range written {
			a.logger.Info("Report saved", zap.String("file", path))
		}

		if uploadFlag {
			client, err := a.storage()
			if err != nil {
				return err
			}
			for _, path := range written {
				object := storage.ObjectName("reports/"+res.RunID, path)
				if err := storage.Upload(ctx, client, a.cfg.Storage.Bucket, object, path); err != nil {
					return err
				}
				a.logger.Info("Report uploaded", zap.String("bucket", a.cfg.Storage.Bucket), zap.String("object", object))
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&subjectProfile, "subject", "prod", "Subject profile (prod, staging_1, staging_2)")
	compareCmd.Flags().StringVar(&subjectFile, "subject-file", "", "Subject file (.xlsx or .csv), overrides --subject")
	compareCmd.Flags().StringArrayVar(&matcherNames, "matcher", nil, "Matcher profile, repeatable")
	compareCmd.Flags().StringArrayVar(&matcherFiles, "matcher-file", nil, "Matcher file (.xlsx or .csv), repeatable")
	compareCmd.Flags().StringArrayVar(&columns, "column", nil, "Subject column to compare, repeatable")
	compareCmd.Flags().StringArrayVar(&matcherColumns, "matcher-column", nil, "Matcher column per --column (defaults to the same name)")
	compareCmd.Flags().StringArrayVar(&lookupColumns, "lookup", nil, "Lookup column identifying a row, repeatable")
	compareCmd.Flags().StringVar(&strategyName, "strategy", "", "Strategy: "+strings.Join(lookup.Names(), ", ")+" (defaults to compare.strategy)")
	compareCmd.Flags().IntVar(&workers, "workers", 0, "Comparisons run at once (defaults to compare.workers)")
	compareCmd.Flags().StringVar(&outPath, "out", "", "Output report (.xlsx, or .csv written once per matcher)")
	compareCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Upload the written reports to the storage bucket")

	_ = compareCmd.MarkFlagRequired("column")
	_ = compareCmd.MarkFlagRequired("lookup")
}

// buildComparisons pairs each column with its matcher column and the shared lookup columns.
func buildComparisons(columns, matcherColumns, lookupColumns []string) ([]compare.Comparison, error) {
	if len(matcherColumns) > 0 && len(matcherColumns) != len(columns) {
		return nil, fmt.Errorf("got %d --matcher-column values for %d --column values", len(matcherColumns), len(columns))
	}
	out := make([]compare.Comparison, len(columns))
	for i, c := range columns {
		out[i] = compare.Comparison{Column: c, LookupColumns: lookupColumns}
		if len(matcherColumns) > 0 {
			out[i].MatcherColumn = matcherColumns[i]
		}
	}
	return out, nil
}

// uniqueMatchers renames matchers sharing a name (e.g. files with the same base
// name in different directories) to <name>_2, <name>_3, ... so their reports
// do not overwrite each other.
func uniqueMatchers(matchers []compare.Named) []compare.Named {
	out := make([]compare.Named, len(matchers))
	taken := make(map[string]bool, len(matchers))
	for _, m := range matchers {
		taken[strings.ToLower(m.Name)] = true
	}
	seen := make(map[string]bool, len(matchers))
	for i, m := range matchers {
		name := m.Name
		if seen[strings.ToLower(name)] {
			for n := 2; taken[strings.ToLower(name)]; n++ {
				name = fmt.Sprintf("%s_%d", m.Name, n)
			}
			taken[strings.ToLower(name)] = true
		}
		seen[strings.ToLower(name)] = true
		out[i] = compare.Named{Name: name, Table: m.Table}
	}
	return out
}

// writeReports writes all reports into one workbook, or one CSV per matcher.
func writeReports(path string, reports []compare.Report) ([]string, error) {
	tables := make([]*table.Table, len(reports))
	for i, r := range reports {
		tables[i] = r.Output
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		if err := source.WriteWorkbook(path, tables...); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case ".csv":
		if len(tables) == 1 {
			return []string{path}, source.WriteCSV(path, tables[0])
		}
		base := strings.TrimSuffix(path, filepath.Ext(path))
		paths := make([]string, len(tables))
		for i, t := range tables {
			paths[i] = base + "_" + t.Name() + ".csv"
			if err := source.WriteCSV(paths[i], t); err != nil {
				return nil, err
			}
		}
		return paths, nil
	}
	return nil, fmt.Errorf("%w: %s", source.ErrUnsupportedFormat, path)
}

func printSummary(res *compare.Result) {
	fmt.Printf("\n=== Comparison Summary (%s) ===\n", res.Strategy)
	for _, r := range res.Reports {
		for _, s := range r.Summaries {
			fmt.Printf("%s | %s: %d match, %d mismatch, %d doesn't exist (%s)\n",
				r.Matcher, s.Comparison.Column, s.Matches, s.Mismatches, s.NotFound, s.Duration)
		}
	}
	fmt.Printf("Execution Time: %s\n", res.Duration)
}
