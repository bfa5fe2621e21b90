package lookup

import "excel-comparator/core/table"

// MaskScan rebuilds one boolean mask per lookup column from the matcher's
// columns for every subject row and takes the first row surviving all masks.
func MaskScan(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) ([]string, error) {
	if err := checkBoth(subject, matcher, column, matcherColumn, lookupColumns); err != nil {
		return nil, err
	}
	values, _ := subject.Column(column)
	found, _ := matcher.Column(matcherColumn)

	matches := make([]string, subject.Len())
	for r := range matches {
		masks := make([][]bool, len(lookupColumns))
		for k, col := range lookupColumns {
			want, _ := subject.Cell(r, col)
			candidates, _ := matcher.Column(col)
			mask := make([]bool, len(candidates))
			for m, v := range candidates {
				mask[m] = v == want
			}
			masks[k] = mask
		}
		value := NotFoundValue
		if m := firstMatch(masks); m >= 0 {
			value = found[m]
		}
		matches[r] = resolve(values[r], value)
	}
	return matches, nil
}

// RecordScan turns both tables into row records and, per subject row, scans the
// matcher records in order for the first one containing every lookup pair.
func RecordScan(subject, matcher *table.Table, column, matcherColumn string, lookupColumns []string) ([]string, error) {
	if err := checkBoth(subject, matcher, column, matcherColumn, lookupColumns); err != nil {
		return nil, err
	}
	records := matcher.Records()

	matches := make([]string, subject.Len())
	for r, rec := range subject.Records() {
		want := make(map[string]string, len(lookupColumns))
		for _, col := range lookupColumns {
			want[col] = rec[col]
		}
		value := NotFoundValue
		for _, candidate := range records {
			if subset(want, candidate) {
				value = candidate[matcherColumn]
				break
			}
		}
		matches[r] = resolve(rec[column], value)
	}
	return matches, nil
}

// subset reports whether every pair of want is present in rec.
func subset(want, rec map[string]string) bool {
	for k, w := range want {
		if v, ok := rec[k]; !ok || v != w {
			return false
		}
	}
	return true
}
