package wiki

import (
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestDetermineAge(t *testing.T) {
	tests := []struct {
		name   string
		info   Infobox
		want   int
		wantOK bool
	}{
		{"birthday passed", Infobox{"birth_date": "1990|05|15"}, 34, true},
		{"birthday upcoming", Infobox{"birth_date": "1990|06|02"}, 33, true},
		{"birthday today", Infobox{"birth_date": "1990|06|01"}, 34, true},
		{"embedded in text", Infobox{"birth_date": "born 1915|04|07 in Ohio"}, 109, true},
		{"not a date", Infobox{"birth_date": "not-a-date"}, 0, false},
		{"missing field", Infobox{"name": "Ada"}, 0, false},
		{"not a string", Infobox{"birth_date": 1990}, 0, false},
		{"month out of range", Infobox{"birth_date": "1990|13|01"}, 0, false},
		{"day out of range", Infobox{"birth_date": "1990|02|30"}, 0, false},
		{"leap day", Infobox{"birth_date": "2000|02|29"}, 24, true},
		{"digits overflow", Infobox{"birth_date": "99999999999999999999|01|01"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := determineAge(tt.info, fixedNow)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (value %v)", ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("age = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestDetermineAge_UsesNow(t *testing.T) {
	info := Infobox{"birth_date": "1990|05|15"}
	later := fixedNow.AddDate(10, 0, 0)
	if got, _ := determineAge(info, later); got != 44 {
		t.Errorf("age = %v, want 44", got)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		info   Infobox
		key    string
		want   any
		wantOK bool
	}{
		{"direct key", Infobox{"alter_ego": "Bruce Wayne"}, "alter_ego", "Bruce Wayne", true},
		{"direct key wins over determiner", Infobox{"age": "unknown", "birth_date": "1990|05|15"}, "age", "unknown", true},
		{"direct empty value kept", Infobox{"age": ""}, "age", "", true},
		{"determined", Infobox{"birth_date": "1990|05|15"}, "age", 34, true},
		{"determiner absent", Infobox{"birth_date": "soon"}, "age", nil, false},
		{"determiner zero is absent", Infobox{"birth_date": "2024|01|01"}, "age", nil, false},
		{"unknown key", Infobox{"name": "Ada"}, "height", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.info, tt.key, fixedNow)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("value = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLookup_DirectKeySkipsDeterminer(t *testing.T) {
	called := false
	saved := determiners["age"]
	determiners["age"] = DeterminerFunc(func(Infobox, time.Time) (any, bool) {
		called = true
		return 1, true
	})
	t.Cleanup(func() { determiners["age"] = saved })

	if v, ok := Lookup(Infobox{"age": "42"}, "age", fixedNow); !ok || v != "42" {
		t.Errorf("Lookup = %v, %v", v, ok)
	}
	if called {
		t.Error("determiner must not run when the infobox has the key")
	}

	if v, ok := Lookup(Infobox{}, "age", fixedNow); !ok || v != 1 {
		t.Errorf("Lookup = %v, %v", v, ok)
	}
	if !called {
		t.Error("determiner should run when the key is missing")
	}
}

func TestIsFalsy(t *testing.T) {
	falsy := []any{nil, false, "", 0, int64(0), 0.0}
	for _, v := range falsy {
		if !isFalsy(v) {
			t.Errorf("isFalsy(%#v) = false", v)
		}
	}
	truthy := []any{true, "x", 1, 2.5, []string{}, map[string]any{}}
	for _, v := range truthy {
		if isFalsy(v) {
			t.Errorf("isFalsy(%#v) = true", v)
		}
	}
}

func TestDeterminerRegistry(t *testing.T) {
	if _, ok := LookupDeterminer("age"); !ok {
		t.Error("age determiner should be registered")
	}
	if _, ok := LookupDeterminer("height"); ok {
		t.Error("height should not be registered")
	}
	if keys := DeterminerKeys(); !reflect.DeepEqual(keys, []string{"age"}) {
		t.Errorf("DeterminerKeys = %v", keys)
	}
}
