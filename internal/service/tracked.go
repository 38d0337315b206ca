package service

import "strings"

// Tracked is a change-tracked profile value. Current is the live value; Old
// freezes the value as of the last admin-acknowledged state; Edited stays
// raised from the first unreviewed edit until an admin resets it.
type Tracked[T any] struct {
	Current T
	Old     T
	Edited  bool
}

// Apply returns the tracked state after submitting a new value, plus whether
// this edit newly raised the flag (the trigger for a "requested" audit row).
//
// Old is only refreshed from Current while the flag is down, so it always
// holds the last acknowledged value, not the value of the previous edit.
func (t Tracked[T]) Apply(submitted T, equal func(a, b T) bool) (Tracked[T], bool) {
	changed := !equal(t.Current, submitted)

	next := Tracked[T]{Current: submitted, Old: t.Old, Edited: t.Edited || changed}
	if !t.Edited {
		next.Old = t.Current
	}

	return next, changed && !t.Edited
}

// normalizeText prepares free text for change comparison: trim, collapse
// whitespace runs, case-fold.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// textEqual compares free-text values under normalization.
func textEqual(a, b string) bool {
	return normalizeText(a) == normalizeText(b)
}

// fieldsEqual compares research-field lists order-sensitively, joined on ",".
func fieldsEqual(a, b []string) bool {
	return strings.Join(a, ",") == strings.Join(b, ",")
}
