package fixture

import "excel-comparator/core/utils"

// Encode counts adjacent equal elements.
//
//	[a a a b b a c c d d] -> a 3, b 2, a 1, c 2, d 2
func Encode(values []string) []Run {
	var runs []Run
	for i, v := range values {
		if i > 0 && values[i-1] == v {
			runs[len(runs)-1].Count++
			continue
		}
		runs = append(runs, Run{Value: v, Count: 1})
	}
	return runs
}

// Decode expands runs back into the values Encode counted.
func Decode(runs []Run) []string {
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		v := utils.ToString(r.Value)
		for range r.Count {
			out = append(out, v)
		}
	}
	return out
}
