package wiki

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Response is one decoded API response
type Response = map[string]any

// queryKind labels a request for logs, metrics and spans by its list,
// generator or prop parameter.
func queryKind(params url.Values) string {
	for _, key := range []string{"list", "generator", "prop", "meta"} {
		if v := params.Get(key); v != "" {
			return v
		}
	}
	return "query"
}

// cloneValues returns a deep copy of params
func cloneValues(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// pageEntry returns the entry for pageID under query.pages
func pageEntry(resp Response, pageID int) (map[string]any, bool) {
	pages := getMap(getMap(resp["query"])["pages"])
	page := getMap(pages[strconv.Itoa(pageID)])
	return page, page != nil
}

// sortedKeys returns the keys of m in order, so iteration over pages is stable
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pluck collects the string field key of every object in items.
// Entries without the field are skipped.
func pluck(items []any, key string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := getMap(item)[key].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// tokenString renders a continuation token. JSON numbers keep their
// shortest decimal form (10, not 1e+01).
func tokenString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// formatCoord renders a coordinate without exponent or trailing zeros
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func getMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func getSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func getString(v any) string {
	s, _ := v.(string)
	return s
}

func getInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}

func getFloat(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
