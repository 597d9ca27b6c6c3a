// Package ingestion builds and refreshes the indexed research corpus.
//
// The Pipeline type runs discrete ingestion cycles: for each registered
// Source it fetches documents newer than the source's watermark,
// normalizes them into chunks, skips documents whose content fingerprint
// is already indexed, embeds the rest, and upserts them into storage.
// Sources are processed concurrently on a worker pool and fail
// independently; a failed source keeps its watermark so nothing is lost.
// The Scheduler type runs cycles on a cron spec without overlap.
package ingestion
