package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"

	"github.com/telste/gridview/internal/cli/pagination"
	"github.com/telste/gridview/internal/config"
	"github.com/telste/gridview/internal/dataset"
	"github.com/telste/gridview/internal/grid"
	"github.com/telste/gridview/internal/querycache"
)

// Output formats supported by the query command.
const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

// queryFlags holds the query command's flag values.
type queryFlags struct {
	load loadOptions

	search  string
	filters []string
	sorts   []string

	page     int
	pageSize int
	limit    int
	offset   int

	output   string
	noCache  bool
	cacheTTL string
}

// queryResult is the structured output of one headless query.
type queryResult struct {
	Source     string           `json:"source"     yaml:"source"`
	Columns    []string         `json:"columns"    yaml:"columns"`
	Rows       []map[string]any `json:"rows"       yaml:"rows"`
	Pagination pagination.Meta  `json:"pagination" yaml:"pagination"`
	FromCache  bool             `json:"from_cache" yaml:"from_cache"`
}

// NewQueryCmd creates the query command: a headless run of the grid engine
// that loads a dataset, applies search/filter/sort/pagination, and prints
// one page in the requested format.
func NewQueryCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "query <dataset>",
		Short: "Filter, sort, and print a dataset page without the TUI",
		Args:  cobra.ExactArgs(1),
		Example: `  # Page 2 of rows where price > 10, sorted by price descending
  gridview query items.csv --filter "price:gt:10" --sort price:desc --page 2 --page-size 20

  # Offset-based slice as YAML
  gridview query items.csv --limit 10 --offset 30 --output yaml

  # Search and bypass the result cache
  gridview query items.csv --search widget --no-cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.load.Format, "format", "", "dataset format: csv, json, or sqlite (default: inferred from extension)")
	cmd.Flags().StringVar(&flags.load.Table, "table", "", "table name (SQLite datasets)")
	cmd.Flags().StringVar(&flags.load.KeyField, "key", "", "column supplying stable row keys")
	cmd.Flags().StringVar(&flags.search, "search", "", "case-insensitive search across all columns")
	cmd.Flags().StringArrayVar(&flags.filters, "filter", nil, "column filter 'key:operator:value' (repeatable)")
	cmd.Flags().StringArrayVar(&flags.sorts, "sort", nil, "sort 'field' or 'field:order' (repeatable, priority order)")
	cmd.Flags().IntVar(&flags.page, "page", 0, "1-based page number (page-based mode)")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "rows per page (requires --page)")
	cmd.Flags().IntVar(&flags.limit, "limit", pagination.DefaultLimit, "maximum rows to return (offset-based mode)")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "rows to skip (offset-based mode)")
	cmd.Flags().StringVar(&flags.output, "output", outputTable, "output format: json, yaml, or table")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the query result cache")
	cmd.Flags().StringVar(&flags.cacheTTL, "cache-ttl", "", "result cache TTL, e.g. 300 or '5m' (default from config)")

	return cmd
}

//nolint:cyclop // Linear command pipeline: validate, load, cache check, run, render.
func runQuery(cmd *cobra.Command, path string, flags queryFlags) error {
	switch flags.output {
	case outputJSON, outputYAML, outputTable:
	default:
		return fmt.Errorf("unsupported output format: %s", flags.output)
	}

	params := pagination.Params{
		Limit:    flags.limit,
		Offset:   flags.offset,
		Page:     flags.page,
		PageSize: flags.pageSize,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	ds, err := loadDataset(path, flags.load)
	if err != nil {
		return err
	}
	cols := datasetColumns(ds)

	filters, err := ParseFilters(flags.filters, cols)
	if err != nil {
		return err
	}
	sorts, err := parseSorts(flags.sorts, cols)
	if err != nil {
		return err
	}

	page := params.EffectivePage()
	pageSize := params.EffectivePageSize()

	cache, err := openQueryCache(flags)
	if err != nil {
		return err
	}
	key := querycache.Key(querycache.QueryShape{
		Fingerprint: sourceFingerprint(path, ds),
		Search:      flags.search,
		Filters:     filters,
		Sorts:       sorts,
		Page:        page,
		PageSize:    pageSize,
	})

	if entry, cacheErr := cache.Get(key); cacheErr == nil {
		var cached queryResult
		if unmarshalErr := json.Unmarshal(entry.Result, &cached); unmarshalErr == nil {
			cached.FromCache = true
			logger.Debug().Str("key", key).Msg("query served from cache")
			return renderQueryResult(cmd.OutOrStdout(), flags.output, cached)
		}
	} else if !errors.Is(cacheErr, querycache.ErrNotFound) &&
		!errors.Is(cacheErr, querycache.ErrExpired) &&
		!errors.Is(cacheErr, querycache.ErrDisabled) {
		logger.Warn().Err(cacheErr).Msg("query cache read failed")
	}

	result := executeQuery(ds, cols, flags.search, filters, sorts, page, pageSize)

	if payload, marshalErr := json.Marshal(result); marshalErr == nil {
		if setErr := cache.Set(key, payload); setErr != nil && !errors.Is(setErr, querycache.ErrDisabled) {
			logger.Warn().Err(setErr).Msg("query cache write failed")
		}
	}

	return renderQueryResult(cmd.OutOrStdout(), flags.output, result)
}

// executeQuery runs the engine headlessly over the loaded dataset.
func executeQuery(
	ds *dataset.Dataset,
	cols []grid.Column[dataset.Record],
	search string,
	filters []grid.FilterSpec,
	sorts []grid.SortSpec,
	page, pageSize int,
) queryResult {
	store := grid.New(cols, func(r dataset.Record) string { return r.Key }, grid.Options{
		MultiSort:     true,
		PageSize:      pageSize,
		ViewCacheSize: config.Global().Performance.MaxCacheSize,
		Logger:        logger,
	})
	defer store.Close()

	store.ReplaceRows(ds.Records, 1)
	store.SetSearch(search)
	for _, f := range filters {
		store.SetFilter(f)
	}
	store.SetSorts(sorts)
	store.SetPage(page)

	view := store.View()

	columns := make([]string, 0, len(cols))
	for _, col := range cols {
		columns = append(columns, col.Key)
	}

	rows := make([]map[string]any, 0, len(view.Rows))
	for _, rec := range view.Rows {
		row := make(map[string]any, len(rec.Values)+1)
		row["_key"] = rec.Key
		for name, value := range rec.Values {
			row[name] = value
		}
		rows = append(rows, row)
	}

	return queryResult{
		Source:     ds.SourcePath,
		Columns:    columns,
		Rows:       rows,
		Pagination: pagination.NewMeta(view.Page, view.PageSize, view.FilteredRows),
	}
}

// parseSorts converts repeated --sort flags into the engine's sort list.
func parseSorts(exprs []string, cols []grid.Column[dataset.Record]) ([]grid.SortSpec, error) {
	known := make(map[string]bool, len(cols))
	for _, col := range cols {
		known[col.Key] = true
	}

	specs := make([]grid.SortSpec, 0, len(exprs))
	for _, expr := range exprs {
		field, order, err := pagination.ParseSort(expr)
		if err != nil {
			return nil, err
		}
		if field == "" {
			continue
		}
		if !known[field] {
			return nil, fmt.Errorf("unknown sort field %q", field)
		}

		sortOrder := grid.OrderAsc
		if order == pagination.SortOrderDesc {
			sortOrder = grid.OrderDesc
		}
		specs = append(specs, grid.SortSpec{Key: field, Order: sortOrder})
	}
	return specs, nil
}

// sourceFingerprint identifies the dataset for cross-run caching. The
// engine's in-process fingerprint hashes generated row keys, which differ
// between loads of the same file, so the cache keys on file identity
// instead: path, size, modification time, and record count.
func sourceFingerprint(path string, ds *dataset.Dataset) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(path))

	if info, err := os.Stat(path); err == nil {
		_, _ = h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
		_, _ = h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
	}
	_, _ = h.Write([]byte(strconv.Itoa(len(ds.Records))))
	return h.Sum64()
}

// openQueryCache builds the query cache from config plus the command flags.
func openQueryCache(flags queryFlags) (*querycache.Store, error) {
	cfg := config.Global()

	enabled := cfg.Cache.Enabled && !flags.noCache
	ttl := cfg.Cache.TTLSeconds
	if flags.cacheTTL != "" {
		parsed, err := querycache.ParseTTL(flags.cacheTTL)
		if err != nil {
			return nil, err
		}
		ttl = parsed
	}

	return querycache.NewStore(cfg.Cache.Directory, enabled, ttl)
}

// renderQueryResult writes the result in the requested format.
func renderQueryResult(w io.Writer, format string, result queryResult) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case outputYAML:
		return yaml.NewEncoder(w).Encode(result)
	case outputTable:
		return renderTable(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// renderTable prints the page as an aligned text table with a range footer.
// Numbers go through the locale-aware printer so large counts stay readable.
func renderTable(w io.Writer, result queryResult) error {
	printer := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(result.Columns, "\t"))

	for _, row := range result.Rows {
		cells := make([]string, 0, len(result.Columns))
		for _, col := range result.Columns {
			cells = append(cells, tableCell(printer, row[col]))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	meta := result.Pagination
	_, err := printer.Fprintf(w, "\nPage %d of %d (%d rows total)\n",
		meta.CurrentPage, meta.TotalPages, meta.TotalItems)
	return err
}

// tableCell renders one cell for table output.
func tableCell(printer *message.Printer, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return printer.Sprintf("%v", number.Decimal(val))
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
