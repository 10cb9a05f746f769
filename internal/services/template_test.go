package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jaffrepaul/sentry-academy-backend/internal/logger"
	"github.com/jaffrepaul/sentry-academy-backend/internal/types"
)

func TestPatternComplexityVote(t *testing.T) {
	m := NewTemplateMatcher(logger.NewNop())

	advanced := m.Pattern(types.SynthesizedContent{
		MainConcepts: []string{"distributed tracing internals", "profiling at scale"},
	})
	if advanced.Complexity != "advanced" {
		t.Fatalf("complexity = %q, want advanced", advanced.Complexity)
	}

	beginner := m.Pattern(types.SynthesizedContent{
		MainConcepts: []string{"getting started basics", "first setup"},
	})
	if beginner.Complexity != "beginner" {
		t.Fatalf("complexity = %q, want beginner", beginner.Complexity)
	}

	empty := m.Pattern(types.SynthesizedContent{})
	if empty.Complexity != "beginner" {
		t.Fatalf("no signals should default to beginner, got %q", empty.Complexity)
	}
}

func TestCourseTitleShapes(t *testing.T) {
	m := NewTemplateMatcher(logger.NewNop())

	p := types.ContentPattern{Concepts: []string{"profiling"}, Complexity: "advanced"}
	if got := m.CourseTitle(p, ""); got != "Mastering profiling" {
		t.Fatalf("title = %q", got)
	}
	if got := m.CourseTitle(p, "Backend Engineer"); got != "Mastering profiling for Backend Engineer" {
		t.Fatalf("title = %q", got)
	}

	p.Complexity = "beginner"
	if got := m.CourseTitle(p, ""); got != "Getting Started with profiling" {
		t.Fatalf("title = %q", got)
	}

	noConcepts := types.ContentPattern{Complexity: "intermediate"}
	if got := m.CourseTitle(noConcepts, ""); got != "Sentry in Practice" {
		t.Fatalf("title = %q", got)
	}
}

func TestCourseDescriptionTruncation(t *testing.T) {
	m := NewTemplateMatcher(logger.NewNop())

	p := types.ContentPattern{
		Concepts:   []string{"error tracking", "tracing", "profiling", "release health"},
		Complexity: "intermediate",
	}
	desc := m.CourseDescription(p, 60)
	if n := utf8.RuneCountInString(desc); n > 60 {
		t.Fatalf("description not truncated: %d runes", n)
	}
	if !strings.Contains(m.CourseDescription(p, 0), "error tracking") {
		t.Fatal("description should name the leading concepts")
	}

	// Truncation must not split a multi-byte rune.
	accented := types.ContentPattern{
		Concepts:   []string{"télémétrie détaillée", "données d'erreur", "traçage réparti"},
		Complexity: "intermediate",
	}
	for max := 30; max < 80; max++ {
		got := m.CourseDescription(accented, max)
		if !utf8.ValidString(got) {
			t.Fatalf("maxChars=%d produced invalid UTF-8: %q", max, got)
		}
		if n := utf8.RuneCountInString(got); n > max {
			t.Fatalf("maxChars=%d yielded %d runes", max, n)
		}
	}
}

func TestModuleCountClamp(t *testing.T) {
	m := NewTemplateMatcher(logger.NewNop())

	cases := []struct {
		concepts int
		want     int
	}{
		{0, 3}, {2, 3}, {3, 3}, {5, 5}, {6, 6}, {10, 6},
	}
	for _, tc := range cases {
		p := types.ContentPattern{Concepts: make([]string, tc.concepts)}
		if got := m.ModuleCount(p); got != tc.want {
			t.Fatalf("ModuleCount(%d concepts) = %d, want %d", tc.concepts, got, tc.want)
		}
	}
}
