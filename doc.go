// Package primeshield analyzes consecutive prime pairs (p, q) and the
// primality of their reduced sum S = p + q - 1.
//
// A run streams every prime up to a configured bound N through a
// parallel segmented sieve, evaluates S for each consecutive pair, and
// aggregates per-gap success statistics together with the modular
// "shield" profile that predicts which gaps do better than the 1/ln(N)
// baseline.
//
// Basic usage:
//
//	a, err := primeshield.New(8,
//	    primeshield.WithTrackedGaps([]uint64{2, 4, 6, 12, 30}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := a.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range table.Records {
//	    fmt.Printf("gap %d: %.4f (boost %.3f)\n", rec.Gap, rec.ObservedRate, rec.TheoreticalBoost)
//	}
package primeshield
