// Package patternfilter provides a Go client for saving filter presets and
// evaluating them against pattern-detection records.
//
// A record is a flat map of field names to scalars or arrays of scalars, as
// produced by a pattern scanner. A filter is a list of conditions combined with
// AND or OR. Filters can be applied ad hoc or saved as named presets.
//
//	client, _ := patternfilter.New(ctx, patternfilter.WithSQLite("presets.db"))
//	defer client.Close()
//
//	p, _ := client.Presets().Create(ctx, "High confidence", "", patternfilter.Filter{
//	    Logic: patternfilter.And,
//	    Conditions: []patternfilter.Condition{
//	        {Field: "confidence", Operator: patternfilter.OpGte, Value: 0.8},
//	    },
//	})
//	matched, _ := client.ApplyPreset(ctx, p.ID, records)
//
// Presets can live in Valkey, Redis, SQLite, PostgreSQL or process memory.
package patternfilter
