package provider

import (
	"context"
	"fmt"
	"strconv"
)

// Page is one page of raw vendor items. Next is the cursor for the following
// page (page number, id or absolute URL); empty means done.
type Page struct {
	Items []any
	Next  string
}

// PageFunc fetches the page identified by cursor. The first call gets an empty cursor.
type PageFunc func(ctx context.Context, cursor string) (Page, error)

// Paginate follows cursors until a page announces no successor, comes back empty,
// repeats a cursor or maxPages pages were read. It returns every item gathered so
// far alongside any error.
func Paginate(ctx context.Context, maxPages int, fetch PageFunc) ([]any, error) {
	var items []any
	seen := make(map[string]struct{})
	cursor := ""

	for page := 0; ; page++ {
		if page >= maxPages {
			return items, fmt.Errorf("%w after %d pages", ErrPageLimit, maxPages)
		}
		if err := ctx.Err(); err != nil {
			return items, err
		}

		p, err := fetch(ctx, cursor)
		if err != nil {
			return items, fmt.Errorf("page %d: %w", page+1, err)
		}
		items = append(items, p.Items...)

		if p.Next == "" || len(p.Items) == 0 {
			return items, nil
		}
		if _, dup := seen[p.Next]; dup || p.Next == cursor {
			return items, fmt.Errorf("%w: %s", ErrRepeatedCursor, p.Next)
		}
		seen[p.Next] = struct{}{}
		cursor = p.Next
	}
}

// ByPageNumber adapts a numbered-page fetch to a PageFunc starting at first.
// A page shorter than size ends the loop; with size <= 0 only an empty page does.
func ByPageNumber(first, size int, fetch func(ctx context.Context, page int) ([]any, error)) PageFunc {
	return func(ctx context.Context, cursor string) (Page, error) {
		page := first
		if cursor != "" {
			n, err := strconv.Atoi(cursor)
			if err != nil {
				return Page{}, fmt.Errorf("invalid page cursor %q: %w", cursor, err)
			}
			page = n
		}

		items, err := fetch(ctx, page)
		if err != nil {
			return Page{}, err
		}

		next := ""
		if size <= 0 || len(items) >= size {
			next = strconv.Itoa(page + 1)
		}
		return Page{Items: items, Next: next}, nil
	}
}
