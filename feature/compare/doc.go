// Package compare runs batches of lookups of one subject table against
// several matcher tables.
//
// Every (matcher, comparison) pair is an independent task. Tasks run on a
// bounded worker pool and only compute match columns; the columns are then
// written into a per-matcher copy of the subject in request order, so no
// table is ever written concurrently.
//
// # Usage
//
//	svc := compare.NewService(cfg.Compare, logger)
//	res, err := svc.Run(ctx, compare.Request{
//	    Subject:  prod,
//	    Matchers: []compare.Named{{Name: "staging_1", Table: staging1}},
//	    Comparisons: []compare.Comparison{
//	        {Column: "Supplier Conclusion", LookupColumns: []string{"Supplier Id"}},
//	    },
//	})
package compare
