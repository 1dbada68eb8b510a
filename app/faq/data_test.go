package faq

import "testing"

func TestEntriesIsACopy(t *testing.T) {
	first := Entries()
	originalQuestion := first[0].Question

	first[0].Question = "mutated"
	first[0], first[1] = first[1], first[0]

	fresh := Entries()
	if fresh[0].Question != originalQuestion {
		t.Errorf("dataset mutated through Entries: got %q, want %q", fresh[0].Question, originalQuestion)
	}
}

func TestCountMatchesEntries(t *testing.T) {
	if got := Count(); got != len(Entries()) {
		t.Errorf("Count() = %d, want %d", got, len(Entries()))
	}
}
