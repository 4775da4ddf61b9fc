package matcher

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docscan/internal/chunker"
)

func TestCompile_CaseInsensitive(t *testing.T) {
	re, err := Compile("error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range []string{"ERROR", "Error here", "an eRRor"} {
		if !re.MatchString(s) {
			t.Errorf("expected %q to match", s)
		}
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile("(unclosed")
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	if !strings.Contains(err.Error(), "compile pattern") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestMatchChunk_AbsoluteLineNumbers(t *testing.T) {
	re, _ := Compile("fox")
	c := chunker.Chunk{Start: 41, Lines: []string{
		"the quick brown fox",
		"jumps over",
		"  another FOX  ",
	}}

	got := MatchChunk(c, re, "a.txt")
	want := []Match{
		{LineNumber: 41, Line: "the quick brown fox", FileName: "a.txt"},
		{LineNumber: 43, Line: "another FOX", FileName: "a.txt"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMatchChunk_NoMatchesIsEmptyNotNil(t *testing.T) {
	re, _ := Compile("zebra")
	got := MatchChunk(chunker.Chunk{Start: 1, Lines: []string{"a", "b"}}, re, "a.txt")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestMatchChunk_Deterministic(t *testing.T) {
	re, _ := Compile(`\bne\w+`)
	lines := []string{"new line", "old line", "Next one", "never", "none here"}
	c := chunker.Chunk{Start: 10, Lines: lines}

	first := MatchChunk(c, re, "f")
	for i := 0; i < 20; i++ {
		if got := MatchChunk(c, re, "f"); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, got)
		}
	}
}

func TestAggregate_SortsOutOfOrderChunks(t *testing.T) {
	re, _ := Compile("x")
	lines := []string{"x1", "a", "x3", "x4", "b", "x6", "x7"}
	chunks := chunker.Partition(lines, 3)

	// Completion order reversed.
	var parts [][]Match
	for i := len(chunks) - 1; i >= 0; i-- {
		parts = append(parts, MatchChunk(chunks[i], re, "f"))
	}
	got := Aggregate(parts...)

	var nums []int
	for _, m := range got {
		nums = append(nums, m.LineNumber)
	}
	want := []int{1, 3, 4, 6, 7}
	if !reflect.DeepEqual(nums, want) {
		t.Fatalf("expected line numbers %v, got %v", want, nums)
	}
}

func TestAggregate_StableForEqualLineNumbers(t *testing.T) {
	got := Aggregate(
		[]Match{{LineNumber: 2, Line: "first"}},
		[]Match{{LineNumber: 1, Line: "zero"}, {LineNumber: 2, Line: "second"}},
	)
	if got[1].Line != "first" || got[2].Line != "second" {
		t.Fatalf("expected stable order for ties, got %+v", got)
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
