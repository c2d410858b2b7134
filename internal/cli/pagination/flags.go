package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Pagination defaults and validation limits.
const (
	DefaultLimit    = 100
	MinLimit        = 1
	MaxLimit        = 10000
	DefaultPageSize = 50
	MinPageSize     = 1
	MaxPageSize     = 1000
	DefaultOffset   = 0
	MinPage         = 1

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Common validation errors.
var (
	ErrInvalidLimit    = fmt.Errorf("limit must be between %d and %d", MinLimit, MaxLimit)
	ErrInvalidPageSize = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrNegativeOffset  = errors.New("offset cannot be negative")
	ErrNegativePage    = errors.New("page cannot be negative")
	ErrMixedModes      = errors.New("cannot use both offset-based (--offset) and page-based (--page) pagination")
	ErrInvalidSort     = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'price:desc')")
	ErrEmptySortField  = errors.New("sort field cannot be empty")
	ErrInvalidOrder    = errors.New("sort order must be 'asc' or 'desc'")
)

// Params holds CLI pagination flags. Page > 0 selects page-based mode;
// otherwise offset-based mode with Limit/Offset applies.
type Params struct {
	// Limit is the maximum number of results (offset-based mode).
	Limit int

	// Offset is the number of results to skip (offset-based mode).
	Offset int

	// Page is the 1-based page number (page-based mode; 0 = inactive).
	Page int

	// PageSize is the number of results per page (page-based mode).
	PageSize int
}

// NewParams returns Params with offset-based defaults.
func NewParams() *Params {
	return &Params{
		Limit:  DefaultLimit,
		Offset: DefaultOffset,
	}
}

// Validate checks bounds and mode consistency.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, p.Limit)
	}
	if p.Offset < 0 {
		return ErrNegativeOffset
	}
	if p.Page < 0 {
		return ErrNegativePage
	}
	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}

	if p.Page > 0 && p.Offset > 0 {
		return ErrMixedModes
	}
	if p.PageSize > 0 && p.Page == 0 {
		return errors.New("page-size requires --page to be set")
	}
	return nil
}

// IsPageBased reports whether page-based pagination is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// EffectivePageSize returns the page size the engine should use: the
// explicit page size in page mode, else the limit, else the default.
func (p Params) EffectivePageSize() int {
	if p.IsPageBased() {
		if p.PageSize > 0 {
			return p.PageSize
		}
		return DefaultPageSize
	}
	if p.Limit > 0 {
		return p.Limit
	}
	return DefaultLimit
}

// EffectivePage converts either mode to a 1-based page number. In offset
// mode the offset is snapped down to a page boundary.
func (p Params) EffectivePage() int {
	if p.IsPageBased() {
		return p.Page
	}
	size := p.EffectivePageSize()
	if size <= 0 {
		return 1
	}
	return (p.Offset / size) + 1
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses "field" or "field:order" into its components.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return "", SortOrderAsc, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = SortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSort, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidOrder, order)
	}
	return field, order, nil
}
