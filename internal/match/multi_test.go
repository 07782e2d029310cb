package match

import (
	"context"
	"errors"
	"testing"

	"lyrictag/internal/logger"
)

type fakeSource struct {
	name    string
	results []Candidate
	err     error
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Search(_ context.Context, _ Query) ([]Candidate, error) {
	return f.results, f.err
}

func TestMultiSourceGathersAll(t *testing.T) {
	a := &fakeSource{name: "a", results: []Candidate{{Source: "a"}, {Source: "a"}}}
	b := &fakeSource{name: "b", results: []Candidate{{Source: "b"}}}

	multi := NewMultiSource([]Source{a, b}, logger.New(false))
	got, err := multi.Search(context.Background(), Query{Title: "x"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got))
	}
	if got[2].Source != "b" {
		t.Errorf("source order not preserved: %+v", got)
	}
}

func TestMultiSourceSkipsFailures(t *testing.T) {
	broken := &fakeSource{name: "broken", err: errors.New("boom")}
	ok := &fakeSource{name: "ok", results: []Candidate{{Source: "ok"}}}

	multi := NewMultiSource([]Source{broken, ok}, logger.New(false))
	got, err := multi.Search(context.Background(), Query{Title: "x"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].Source != "ok" {
		t.Errorf("got %+v, want one candidate from ok", got)
	}
}

func TestMultiSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{name: "a", results: []Candidate{{Source: "a"}}}
	multi := NewMultiSource([]Source{src}, logger.New(false))

	_, err := multi.Search(ctx, Query{Title: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
