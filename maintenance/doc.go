// Package maintenance holds offline corpus upkeep jobs: the retention
// sweeper that removes chunks past their maximum age, and the
// reembedder that regenerates every stored vector after an embedding
// model change. Both iterate the corpus in batches with retry and
// progress reporting so they can run against large stores.
package maintenance
