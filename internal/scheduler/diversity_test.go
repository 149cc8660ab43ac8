package scheduler_test

import (
	"testing"

	"github.com/boggdan95/photo-to-post/internal/post"
	"github.com/boggdan95/photo-to-post/internal/scheduler"
)

func mkPost(id, country string) *post.Post {
	return &post.Post{ID: id, Stage: post.StageApproved, Country: country, PhotoCount: 1}
}

func ids(items []*post.Post) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func assertPermutation(t *testing.T, input, output []*post.Post) {
	t.Helper()
	if len(input) != len(output) {
		t.Fatalf("length changed: %d in, %d out", len(input), len(output))
	}
	seen := make(map[string]int, len(input))
	for _, p := range input {
		seen[p.ID]++
	}
	for _, p := range output {
		seen[p.ID]--
	}
	for id, n := range seen {
		if n != 0 {
			t.Fatalf("id %s appears %+d times too many in output", id, -n)
		}
	}
}

func maxRun(items []*post.Post) int {
	longest, run := 0, 0
	last := ""
	for _, p := range items {
		if p.Country == last {
			run++
		} else {
			last = p.Country
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func TestReorderDiverseBreaksRuns(t *testing.T) {
	input := []*post.Post{
		mkPost("p1", "france"),
		mkPost("p2", "france"),
		mkPost("p3", "france"),
		mkPost("p4", "italy"),
		mkPost("p5", "italy"),
		mkPost("p6", "spain"),
	}
	output, outcome := scheduler.ReorderDiverse(input, 2)

	assertPermutation(t, input, output)
	if outcome != scheduler.OutcomeSatisfied {
		t.Fatalf("expected satisfied outcome, got %s", outcome)
	}
	if got := maxRun(output); got > 2 {
		t.Fatalf("run of %d exceeds bound 2: %v", got, ids(output))
	}
}

func TestReorderDiverseScenarioTwoConsecutive(t *testing.T) {
	input := []*post.Post{
		mkPost("p1", "france"),
		mkPost("p2", "france"),
		mkPost("p3", "france"),
		mkPost("p4", "italy"),
	}
	output, outcome := scheduler.ReorderDiverse(input, 2)

	want := []string{"p1", "p2", "p4", "p3"}
	got := ids(output)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	if outcome != scheduler.OutcomeSatisfied {
		t.Fatalf("expected satisfied outcome, got %s", outcome)
	}
}

func TestReorderDiverseBestEffortWhenDominated(t *testing.T) {
	input := []*post.Post{
		mkPost("p1", "france"),
		mkPost("p2", "france"),
		mkPost("p3", "france"),
		mkPost("p4", "france"),
		mkPost("p5", "italy"),
	}
	output, outcome := scheduler.ReorderDiverse(input, 1)

	assertPermutation(t, input, output)
	if outcome != scheduler.OutcomeBestEffort {
		t.Fatalf("expected best-effort outcome, got %s", outcome)
	}
}

func TestReorderDiverseDisabled(t *testing.T) {
	input := []*post.Post{
		mkPost("p1", "france"),
		mkPost("p2", "france"),
		mkPost("p3", "france"),
	}
	output, outcome := scheduler.ReorderDiverse(input, 0)
	if outcome != scheduler.OutcomeSatisfied {
		t.Fatalf("expected satisfied outcome, got %s", outcome)
	}
	got := ids(output)
	for i, id := range []string{"p1", "p2", "p3"} {
		if got[i] != id {
			t.Fatalf("disabled rule must keep order, got %v", got)
		}
	}
}

func TestReorderDiversePermutationTotality(t *testing.T) {
	cases := [][]*post.Post{
		nil,
		{mkPost("p1", "france")},
		{mkPost("p1", "a"), mkPost("p2", "a"), mkPost("p3", "a"), mkPost("p4", "a")},
		{
			mkPost("p1", "a"), mkPost("p2", "b"), mkPost("p3", "a"), mkPost("p4", "b"),
			mkPost("p5", "c"), mkPost("p6", "a"), mkPost("p7", "a"), mkPost("p8", "c"),
		},
	}
	for _, input := range cases {
		for _, bound := range []int{0, 1, 2, 3} {
			output, _ := scheduler.ReorderDiverse(input, bound)
			assertPermutation(t, input, output)
		}
	}
}
