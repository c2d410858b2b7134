// Package querycache persists grid query results between CLI runs.
//
// Headless queries over the same dataset with the same search, filters,
// sorts, and page are deterministic, so their rendered result pages can be
// reused within a TTL window instead of reloading and re-deriving the view.
// Entries live as JSON files under ~/.gridview/cache/; keys are SHA-256
// hashes of the dataset fingerprint plus the full query shape.
package querycache
