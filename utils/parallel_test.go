package utils

import (
	"errors"
	"testing"
)

func TestParallelCollectsResultsInSlotOrder(t *testing.T) {
	results := Parallel(
		func() (int, error) { return 1, nil },
		func() (int, error) { return 2, nil },
		func() (int, error) { return 3, nil },
	)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []int{1, 2, 3} {
		if results[i].Err != nil {
			t.Fatalf("slot %d unexpected error: %v", i, results[i].Err)
		}
		if results[i].Value != want {
			t.Fatalf("slot %d = %d, want %d", i, results[i].Value, want)
		}
	}
}

func TestParallelOneFailureDoesNotAbortOthers(t *testing.T) {
	boom := errors.New("boom")
	results := Parallel(
		func() (string, error) { return "", boom },
		func() (string, error) { return "ok", nil },
	)

	if results[0].Err != boom {
		t.Fatalf("expected first slot to carry the error, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Value != "ok" {
		t.Fatalf("expected second slot to settle normally, got %+v", results[1])
	}
}

func TestParallelWithNoOperations(t *testing.T) {
	results := Parallel[int]()
	if len(results) != 0 {
		t.Fatalf("expected empty result set, got %d", len(results))
	}
}
