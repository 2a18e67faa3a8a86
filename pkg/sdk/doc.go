// Package recodex embeds the recodex catalog search and recommendation
// engine in a Go program, without the HTTP server.
//
// A Client owns an immutable catalog snapshot (and optionally a trending
// table) loaded from CSV or Parquet files or built from in-memory products.
//
//	client, err := recodex.New(ctx,
//	    recodex.WithCatalogFile("train_data.csv"),
//	    recodex.WithTrendingFile("trending_items.csv"),
//	)
//	rec := client.Recommend(ctx, "Red Shirt", 5)
//	if rec.Fallback {
//	    // no product matched; rec.Items is a random sample
//	}
//	names := client.Suggest("shi")
//
// Reload re-reads the files and swaps the snapshot atomically; calls in
// flight keep the snapshot they started with.
package recodex
