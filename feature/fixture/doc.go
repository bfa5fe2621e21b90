// Package fixture expands compact column descriptors into tables.
//
// Real exports are too large to check into a repository, so test data is
// described column by column: explicit values, integer ranges, or runs of
// repeated values, then shaped with modifiers. Encode goes the other way and
// turns an existing column into runs, which is how a descriptor is usually
// written in the first place.
//
// # Descriptor
//
//	name: prod
//	columns:
//	  - name: Supplier Id
//	    range: {start: 1, stop: 4}
//	    each: 2
//	    pad: 4
//	    prefix: SUP-
//	  - name: Supplier Conclusion
//	    runs:
//	      - {value: Pass, count: 4}
//	      - {value: Fail, count: 2}
//
// Modifiers apply in this order: order, each, repeat, pad, prefix.
package fixture
