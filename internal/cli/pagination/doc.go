// Package pagination provides shared pagination and sort-flag handling for
// CLI commands.
//
// Two mutually exclusive modes are supported:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
//
// Meta describes a paginated result for structured output so every command
// that returns row lists reports pagination the same way.
package pagination
