package wiki

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// Infobox is the key/value map parsed from a page's infobox
type Infobox = map[string]any

// Determiner derives a value the infobox does not state directly
type Determiner interface {
	Determine(info Infobox, now time.Time) (any, bool)
}

// DeterminerFunc adapts a function to Determiner
type DeterminerFunc func(info Infobox, now time.Time) (any, bool)

// Determine calls f(info, now)
func (f DeterminerFunc) Determine(info Infobox, now time.Time) (any, bool) {
	return f(info, now)
}

var determiners = map[string]Determiner{
	"age": DeterminerFunc(determineAge),
}

// birthDatePattern matches the Y|M|D triple of birth date templates
var birthDatePattern = regexp.MustCompile(`(\d+)\|(\d+)\|(\d+)`)

// LookupDeterminer returns the determiner registered for key
func LookupDeterminer(key string) (Determiner, bool) {
	d, ok := determiners[key]
	return d, ok
}

// DeterminerKeys lists the derived keys in order
func DeterminerKeys() []string {
	keys := make([]string, 0, len(determiners))
	for k := range determiners {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves key against info. A key the infobox carries wins and is
// returned as is, whatever its value. Otherwise a determiner for the key
// is consulted; a nil, false, zero or empty result counts as absent.
func Lookup(info Infobox, key string, now time.Time) (any, bool) {
	if v, ok := info[key]; ok {
		return v, true
	}
	d, ok := determiners[key]
	if !ok {
		return nil, false
	}
	v, ok := d.Determine(info, now)
	if !ok || isFalsy(v) {
		return nil, false
	}
	return v, true
}

// determineAge computes whole years between birth_date and now.
// birth_date must hold a Y|M|D triple naming a real calendar date.
func determineAge(info Infobox, now time.Time) (any, bool) {
	raw, ok := info["birth_date"].(string)
	if !ok || raw == "" {
		return nil, false
	}

	m := birthDatePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	year, errY := strconv.Atoi(m[1])
	month, errM := strconv.Atoi(m[2])
	day, errD := strconv.Atoi(m[3])
	if errY != nil || errM != nil || errD != nil {
		return nil, false
	}

	birth, ok := calendarDate(year, month, day)
	if !ok {
		return nil, false
	}
	return yearsBetween(birth, now), true
}

// calendarDate builds a date, rejecting values time.Date would normalize
// (month 13, February 30 and the like).
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// yearsBetween counts full years elapsed from from to to
func yearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0 || math.IsNaN(t)
	}
	return false
}
