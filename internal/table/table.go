// Package table renders any homogeneous record collection as a searchable,
// sortable, paginated view. It is driven purely by column descriptors and an
// in-memory data slice; it owns no network logic and performs no mutation.
package table

import (
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/lytortech/vendoradmin/internal/domain"
)

// Kind selects how a column value is rendered. Keeping rendering as tagged
// variants (instead of arbitrary closures per column) means callers only
// reach for KindCustom when a cell genuinely needs bespoke text.
type Kind string

const (
	KindText     Kind = "text"
	KindCurrency Kind = "currency"
	KindBadge    Kind = "badge"
	KindDatetime Kind = "datetime"
	KindCustom   Kind = "custom"
)

// Column describes one column over records of type T. Value extracts the raw
// field (it may reach into nested records); Render is consulted only for
// KindCustom.
type Column[T any] struct {
	Key      string
	Header   string
	Kind     Kind
	Sortable bool
	Value    func(T) interface{}
	Render   func(T) string
}

// SortDir is the sort direction for the single sorted column.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// NextSortDir toggles ascending -> descending -> ascending.
func NextSortDir(d SortDir) SortDir {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// DefaultPageSize matches the dashboard's table default.
const DefaultPageSize = 10

// Options drives one view computation.
type Options struct {
	Query        string
	SearchKey    string
	SortKey      string
	SortDir      SortDir
	Page         int // 1-based
	PageSize     int
	Loading      bool
	EmptyMessage string
}

// Header is the rendered column head.
type Header struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     Kind   `json:"kind"`
	Sortable bool   `json:"sortable,omitempty"`
}

// Cell is one rendered table cell. Class carries the badge variant for
// status-like columns; styling itself is out of scope.
type Cell struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// View is the fully computed table: post-filter, post-sort, one page of
// rendered rows plus the paging envelope.
type View struct {
	Columns      []Header `json:"columns"`
	Rows         [][]Cell `json:"rows"`
	Total        int      `json:"total"`
	Page         int      `json:"page"`
	PageSize     int      `json:"pageSize"`
	PageCount    int      `json:"pageCount"`
	SortKey      string   `json:"sort,omitempty"`
	SortDir      SortDir  `json:"order,omitempty"`
	Loading      bool     `json:"loading,omitempty"`
	EmptyMessage string   `json:"emptyMessage,omitempty"`
}

func findColumn[T any](cols []Column[T], key string) *Column[T] {
	for i := range cols {
		if cols[i].Key == key {
			return &cols[i]
		}
	}
	return nil
}

// Filter keeps records whose search-key column contains the query,
// case-insensitively. An empty query returns the input unchanged, in order.
func Filter[T any](records []T, cols []Column[T], searchKey, query string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}
	col := findColumn(cols, searchKey)
	if col == nil || col.Value == nil {
		return records
	}
	needle := strings.ToLower(query)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		hay := strings.ToLower(cast.ToString(col.Value(rec)))
		if strings.Contains(hay, needle) {
			out = append(out, rec)
		}
	}
	return out
}

// compareValues orders two raw cell values: numerically when both coerce to
// numbers, lexically otherwise.
func compareValues(a, b interface{}) int {
	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}

// SortBy returns a copy of records ordered by the named column. The sort is
// stable, so equal keys keep their incoming order. Unknown or non-sortable
// keys leave the order untouched.
func SortBy[T any](records []T, cols []Column[T], sortKey string, dir SortDir) []T {
	col := findColumn(cols, sortKey)
	if col == nil || !col.Sortable || col.Value == nil {
		return records
	}
	out := make([]T, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := compareValues(col.Value(out[i]), col.Value(out[j]))
		if dir == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// Paginate slices one fixed-size page out of records. Pages are 1-based; a
// page beyond the end yields an empty page, never an error.
func Paginate[T any](records []T, page, pageSize int) []T {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []T{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func renderCell[T any](rec T, col Column[T]) Cell {
	switch col.Kind {
	case KindCurrency:
		return Cell{Text: domain.FormatCurrency(cast.ToFloat64(col.Value(rec)))}
	case KindDatetime:
		return Cell{Text: domain.FormatDateTime(cast.ToString(col.Value(rec)))}
	case KindBadge:
		text := cast.ToString(col.Value(rec))
		return Cell{Text: text, Class: "badge-" + strings.ToLower(text)}
	case KindCustom:
		if col.Render != nil {
			return Cell{Text: col.Render(rec)}
		}
		fallthrough
	default:
		if col.Value == nil {
			return Cell{}
		}
		return Cell{Text: cast.ToString(col.Value(rec))}
	}
}

// Compute assembles the view: filter, sort, paginate, render.
func Compute[T any](records []T, cols []Column[T], opt Options) View {
	if opt.PageSize <= 0 {
		opt.PageSize = DefaultPageSize
	}
	if opt.Page < 1 {
		opt.Page = 1
	}

	headers := make([]Header, 0, len(cols))
	for _, col := range cols {
		headers = append(headers, Header{Key: col.Key, Label: col.Header, Kind: col.Kind, Sortable: col.Sortable})
	}

	view := View{
		Columns:  headers,
		Rows:     [][]Cell{},
		Page:     opt.Page,
		PageSize: opt.PageSize,
		SortKey:  opt.SortKey,
		SortDir:  opt.SortDir,
		Loading:  opt.Loading,
	}
	if opt.Loading {
		return view
	}

	filtered := Filter(records, cols, opt.SearchKey, opt.Query)
	sorted := SortBy(filtered, cols, opt.SortKey, opt.SortDir)

	view.Total = len(sorted)
	view.PageCount = (len(sorted) + opt.PageSize - 1) / opt.PageSize
	if view.Total == 0 {
		view.EmptyMessage = opt.EmptyMessage
		return view
	}

	pageRecords := Paginate(sorted, opt.Page, opt.PageSize)
	rows := make([][]Cell, 0, len(pageRecords))
	for _, rec := range pageRecords {
		cells := make([]Cell, 0, len(cols))
		for _, col := range cols {
			cells = append(cells, renderCell(rec, col))
		}
		rows = append(rows, cells)
	}
	view.Rows = rows
	return view
}
