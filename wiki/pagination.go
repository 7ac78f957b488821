package wiki

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/olgasafonova/wikiquery/metrics"
)

// Projector extracts the values of interest from one response page
type Projector[T any] func(resp Response) ([]T, error)

// Cursor is the continuation state of a paginated query: the parameters
// of the request that produced the page plus the single continuation
// key/value the API handed back.
type Cursor struct {
	Key   string
	Value string

	prior url.Values
}

// Params returns the parameters of the next request. The prior
// parameters are copied, never modified.
func (c *Cursor) Params() url.Values {
	next := cloneValues(c.prior)
	next.Set(c.Key, c.Value)
	return next
}

// Paginated is one page of results from a continuable query
type Paginated[T any] struct {
	Results []T
	Cursor  *Cursor

	client  *Client
	project Projector[T]
}

// HasNext reports whether another page can be fetched
func (p *Paginated[T]) HasNext() bool {
	return p != nil && p.Cursor != nil
}

// Next fetches the following page with the same projector.
// It returns ErrNoMorePages on the last page.
func (p *Paginated[T]) Next(ctx context.Context) (*Paginated[T], error) {
	if !p.HasNext() {
		return nil, ErrNoMorePages
	}
	return paginate(ctx, p.client, p.Cursor.Params(), p.project)
}

// paginate issues one query and wraps its projected results with the
// cursor needed to continue.
func paginate[T any](ctx context.Context, c *Client, params url.Values, project Projector[T]) (*Paginated[T], error) {
	resp, _, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	results, err := project(resp)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []T{}
	}

	cursor, err := nextCursor(params, resp)
	if err != nil {
		return nil, err
	}

	kind := queryKind(params)
	metrics.RecordPage(kind)
	c.logger.Debug("Fetched page",
		"query", kind,
		"results", len(results),
		"has_next", cursor != nil)

	return &Paginated[T]{
		Results: results,
		Cursor:  cursor,
		client:  c,
		project: project,
	}, nil
}

// nextCursor derives the continuation from resp. A response without a
// continue object is the last page. A continue object must carry exactly
// one key besides the opaque "continue" marker.
func nextCursor(params url.Values, resp Response) (*Cursor, error) {
	raw, ok := resp["continue"]
	if !ok || raw == nil {
		return nil, nil
	}

	kind := queryKind(params)
	cont, ok := raw.(map[string]any)
	if !ok {
		return nil, &ProtocolError{Op: kind, Reason: fmt.Sprintf("continue is %T, not an object", raw)}
	}

	var keys []string
	for k := range cont {
		if k != "continue" {
			keys = append(keys, k)
		}
	}
	if len(keys) != 1 {
		sort.Strings(keys)
		return nil, &ProtocolError{
			Op:     kind,
			Reason: fmt.Sprintf("expected exactly one continuation key, got %d %v", len(keys), keys),
		}
	}

	key := keys[0]
	value, ok := tokenString(cont[key])
	if !ok {
		return nil, &ProtocolError{Op: kind, Reason: fmt.Sprintf("continuation %s has unsupported type %T", key, cont[key])}
	}

	return &Cursor{Key: key, Value: value, prior: cloneValues(params)}, nil
}

// Aggregate walks every page starting at first and concatenates the
// results in page order. Any page failure fails the whole aggregate.
func Aggregate[T any](ctx context.Context, first *Paginated[T]) ([]T, error) {
	if first == nil {
		return []T{}, nil
	}

	results := make([]T, 0, len(first.Results))
	page := first
	for {
		results = append(results, page.Results...)
		if !page.HasNext() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := page.Next(ctx)
		if err != nil {
			return nil, err
		}
		page = next
	}
	return results, nil
}

// Collect paginates params to exhaustion and returns every result
func Collect[T any](ctx context.Context, c *Client, params url.Values, project Projector[T]) ([]T, error) {
	first, err := paginate(ctx, c, params, project)
	if err != nil {
		return nil, err
	}
	results, err := Aggregate(ctx, first)
	if err != nil {
		return nil, err
	}
	metrics.RecordAggregate(queryKind(params), len(results))
	return results, nil
}

// Paginate issues params as a continuable query and returns the first page.
// It is the generic entry point for queries the Client has no method for.
func (c *Client) Paginate(ctx context.Context, params url.Values) (*Paginated[Response], error) {
	return paginate(ctx, c, params, func(resp Response) ([]Response, error) {
		return []Response{resp}, nil
	})
}
