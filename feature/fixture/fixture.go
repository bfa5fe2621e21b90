package fixture

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"excel-comparator/core/table"
	"excel-comparator/core/utils"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidColumn is returned for a column with zero or several sources.
	ErrInvalidColumn = errors.New("invalid column descriptor")
	// ErrUnknownAlias is returned when an alias names a column not defined before it.
	ErrUnknownAlias = errors.New("unknown alias")
)

// Descriptor names a table and describes its columns.
type Descriptor struct {
	Name    string   `mapstructure:"name"`
	Columns []Column `mapstructure:"columns"`
}

// Column describes one column. Exactly one of Values, Range, Runs or Alias is set.
type Column struct {
	Name   string `mapstructure:"name"`
	Values []any  `mapstructure:"values"`
	Range  *Range `mapstructure:"range"`
	Runs   []Run  `mapstructure:"runs"`
	// Alias copies an earlier column, before this column's modifiers.
	Alias string `mapstructure:"alias"`

	// Order sorts the values: asc or desc. Numbers compare numerically.
	Order string `mapstructure:"order"`
	// Each repeats every element in place: [a b] each 2 -> [a a b b].
	Each int `mapstructure:"each"`
	// Repeat tiles the whole sequence: [a b] repeat 2 -> [a b a b].
	Repeat int `mapstructure:"repeat"`
	// Pad zero-pads integer values to this width.
	Pad int `mapstructure:"pad"`
	// Prefix is prepended to every value.
	Prefix string `mapstructure:"prefix"`
}

// Range is a half-open integer range [Start, Stop). Step defaults to 1.
type Range struct {
	Start int `mapstructure:"start"`
	Stop  int `mapstructure:"stop"`
	Step  int `mapstructure:"step"`
}

// Run is Count adjacent copies of Value.
type Run struct {
	Value any `mapstructure:"value" json:"value"`
	Count int `mapstructure:"count" json:"count"`
}

// Load reads a JSON or YAML descriptor file.
func Load(path string) (*Descriptor, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read descriptor %q: %w", path, err)
	}

	var d Descriptor
	if err := v.Unmarshal(&d); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor %q: %w", path, err)
	}
	return &d, nil
}

// Build expands every column of d and returns the resulting table.
func Build(d *Descriptor) (*table.Table, error) {
	if len(d.Columns) == 0 {
		return nil, fmt.Errorf("%w: descriptor %q has no columns", ErrInvalidColumn, d.Name)
	}

	names := make([]string, 0, len(d.Columns))
	values := make([][]string, 0, len(d.Columns))
	built := make(map[string][]string, len(d.Columns))
	for _, c := range d.Columns {
		col, err := c.expand(built)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		built[c.Name] = col
		names = append(names, c.Name)
		values = append(values, col)
	}
	return table.FromColumns(d.Name, names, values)
}

func (c Column) expand(built map[string][]string) ([]string, error) {
	sources := 0
	for _, set := range []bool{c.Values != nil, c.Range != nil, c.Runs != nil, c.Alias != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("%w: want exactly one of values, range, runs or alias, got %d", ErrInvalidColumn, sources)
	}

	var out []string
	switch {
	case c.Values != nil:
		out = utils.ToStrings(c.Values)
	case c.Range != nil:
		out = c.Range.expand()
	case c.Runs != nil:
		out = Decode(c.Runs)
	default:
		src, ok := built[c.Alias]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, c.Alias)
		}
		out = slices.Clone(src)
	}
	return c.modify(out)
}

func (r Range) expand() []string {
	step := r.Step
	if step == 0 {
		step = 1
	}
	var out []string
	for i := r.Start; (step > 0 && i < r.Stop) || (step < 0 && i > r.Stop); i += step {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func (c Column) modify(values []string) ([]string, error) {
	switch strings.ToLower(c.Order) {
	case "":
	case "asc":
		slices.SortStableFunc(values, compareValues)
	case "desc":
		slices.SortStableFunc(values, func(a, b string) int { return compareValues(b, a) })
	default:
		return nil, fmt.Errorf("%w: order %q", ErrInvalidColumn, c.Order)
	}

	if c.Each < 0 || c.Repeat < 0 || c.Pad < 0 {
		return nil, fmt.Errorf("%w: negative modifier", ErrInvalidColumn)
	}
	if c.Each > 1 {
		out := make([]string, 0, len(values)*c.Each)
		for _, v := range values {
			for range c.Each {
				out = append(out, v)
			}
		}
		values = out
	}
	if c.Repeat > 1 {
		out := make([]string, 0, len(values)*c.Repeat)
		for range c.Repeat {
			out = append(out, values...)
		}
		values = out
	}

	for i, v := range values {
		if c.Pad > 0 {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				v = fmt.Sprintf("%0*d", c.Pad, n)
			}
		}
		values[i] = c.Prefix + v
	}
	return values, nil
}

// compareValues orders numbers numerically and before any text.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}
