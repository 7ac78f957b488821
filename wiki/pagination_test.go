package wiki

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"testing"
)

// pagedSearch serves search results in fixed pages keyed by sroffset
func pagedSearch(pages [][]string) func(q url.Values) any {
	return func(q url.Values) any {
		idx := 0
		if off := q.Get("sroffset"); off != "" {
			idx = getInt(off)
		}
		items := make([]any, 0, len(pages[idx]))
		for _, title := range pages[idx] {
			items = append(items, map[string]any{"ns": 0, "title": title})
		}
		resp := map[string]any{"query": map[string]any{"search": items}}
		if idx+1 < len(pages) {
			resp["continue"] = map[string]any{"sroffset": idx + 1, "continue": "-||"}
		}
		return resp
	}
}

func TestNextCursor(t *testing.T) {
	params := url.Values{"prop": {"categories"}, "titles": {"Batman"}}

	tests := []struct {
		name      string
		resp      Response
		wantKey   string
		wantValue string
		wantNil   bool
		wantErr   bool
	}{
		{
			name:    "no continue",
			resp:    Response{"batchcomplete": ""},
			wantNil: true,
		},
		{
			name:      "string token",
			resp:      Response{"continue": map[string]any{"clcontinue": "X", "continue": "-||"}},
			wantKey:   "clcontinue",
			wantValue: "X",
		},
		{
			name:      "numeric token",
			resp:      Response{"continue": map[string]any{"sroffset": float64(50), "continue": "-||"}},
			wantKey:   "sroffset",
			wantValue: "50",
		},
		{
			name:      "without continue marker",
			resp:      Response{"continue": map[string]any{"blcontinue": "0|123"}},
			wantKey:   "blcontinue",
			wantValue: "0|123",
		},
		{
			name:    "only continue marker",
			resp:    Response{"continue": map[string]any{"continue": "-||"}},
			wantErr: true,
		},
		{
			name:    "two keys",
			resp:    Response{"continue": map[string]any{"plcontinue": "a", "clcontinue": "b", "continue": "||"}},
			wantErr: true,
		},
		{
			name:    "not an object",
			resp:    Response{"continue": "yes"},
			wantErr: true,
		},
		{
			name:    "unsupported token type",
			resp:    Response{"continue": map[string]any{"clcontinue": []any{"x"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor, err := nextCursor(params, tt.resp)
			if tt.wantErr {
				if !IsProtocol(err) {
					t.Fatalf("expected protocol error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if cursor != nil {
					t.Errorf("expected nil cursor, got %+v", cursor)
				}
				return
			}
			if cursor.Key != tt.wantKey || cursor.Value != tt.wantValue {
				t.Errorf("cursor = %s=%s, want %s=%s", cursor.Key, cursor.Value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func TestCursorParams_CopiesPrior(t *testing.T) {
	params := url.Values{"prop": {"categories"}, "titles": {"Batman"}}
	cursor, err := nextCursor(params, Response{"continue": map[string]any{"clcontinue": "X", "continue": "-||"}})
	if err != nil {
		t.Fatalf("nextCursor failed: %v", err)
	}

	next := cursor.Params()
	if next.Get("clcontinue") != "X" || next.Get("titles") != "Batman" {
		t.Errorf("next params = %v", next)
	}
	if params.Has("clcontinue") {
		t.Error("prior params were mutated")
	}

	next.Set("titles", "Robin")
	if cursor.Params().Get("titles") != "Batman" {
		t.Error("cursor shares state with returned params")
	}
}

func TestPaginate_FollowsCursor(t *testing.T) {
	c, stub := newTestClient(t, pagedSearch([][]string{{"A", "B"}, {"C"}}))
	ctx := context.Background()

	first, err := c.Search(ctx, "x", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !reflect.DeepEqual(first.Results, []string{"A", "B"}) {
		t.Errorf("first page = %v", first.Results)
	}
	if !first.HasNext() {
		t.Fatal("expected a next page")
	}

	second, err := first.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !reflect.DeepEqual(second.Results, []string{"C"}) {
		t.Errorf("second page = %v", second.Results)
	}
	if second.HasNext() {
		t.Error("second page should be the last")
	}
	if _, err := second.Next(ctx); !errors.Is(err, ErrNoMorePages) {
		t.Errorf("Next on last page = %v, want ErrNoMorePages", err)
	}

	reqs := stub.requests()
	if len(reqs) != 2 {
		t.Fatalf("made %d requests, want 2", len(reqs))
	}
	if reqs[1].Get("sroffset") != "1" || reqs[1].Get("srsearch") != "x" {
		t.Errorf("continuation request = %v", reqs[1])
	}
	if reqs[0].Has("sroffset") {
		t.Error("first request must not carry a continuation")
	}
}

func TestAggregate_PreservesOrder(t *testing.T) {
	pages := [][]string{{"A", "B", "C"}, {"D"}, {"E", "F"}}
	c, _ := newTestClient(t, pagedSearch(pages))
	ctx := context.Background()

	first, err := c.Search(ctx, "x", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	got, err := Aggregate(ctx, first)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	want := []string{"A", "B", "C", "D", "E", "F"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %v, want %v", got, want)
	}

	// unchanged remote data yields the same sequence
	again, err := Collect(ctx, c, searchParams("x", 3), projectList("search"))
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("Collect = %v, want %v", again, want)
	}
}

func TestAggregate_FailureDiscardsResults(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any {
		if q.Get("sroffset") == "" {
			return map[string]any{
				"query":    map[string]any{"search": []any{map[string]any{"title": "A"}}},
				"continue": map[string]any{"sroffset": 1, "continue": "-||"},
			}
		}
		return statusBody{code: 500}
	})
	ctx := context.Background()

	first, err := c.Search(ctx, "x", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	got, err := Aggregate(ctx, first)
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no partial results, got %v", got)
	}
}

func TestAggregate_ProtocolViolationMidway(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any {
		return map[string]any{
			"query":    map[string]any{"search": []any{}},
			"continue": map[string]any{"sroffset": 1, "gsroffset": 2},
		}
	})

	_, err := Collect(context.Background(), c, searchParams("x", 1), projectList("search"))
	if !IsProtocol(err) {
		t.Errorf("expected protocol error, got %v", err)
	}
}

func TestAggregate_Nil(t *testing.T) {
	got, err := Aggregate[string](context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, %v", got, err)
	}
}

func TestPaginate_ProjectorError(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any { return map[string]any{} })
	boom := errors.New("bad shape")

	_, err := paginate(context.Background(), c, url.Values{"list": {"x"}}, func(Response) ([]int, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want projector error", err)
	}
}

func TestPaginate_EmptyResultsNotNil(t *testing.T) {
	c, _ := newTestClient(t, func(q url.Values) any { return map[string]any{"batchcomplete": ""} })

	page, err := c.Search(context.Background(), "nothing", 0)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if page.Results == nil {
		t.Error("results should be an empty slice, not nil")
	}
}

func TestClientPaginate_RawResponses(t *testing.T) {
	c, _ := newTestClient(t, pagedSearch([][]string{{"A"}, {"B"}}))
	ctx := context.Background()

	first, err := c.Paginate(ctx, url.Values{"list": {"search"}, "srsearch": {"x"}})
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	all, err := Aggregate(ctx, first)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d responses, want 2", len(all))
	}
	if _, ok := all[0]["continue"]; !ok {
		t.Error("first raw response should carry its continue object")
	}
}
