package matching

import (
	"fmt"
	"slices"
	"testing"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resume  string
		skills  string
		score   int
		matched []string
		missing []string
	}{
		{
			name:    "all skills present",
			resume:  "Built Go services on Kubernetes with PostgreSQL.",
			skills:  "Go, Kubernetes, PostgreSQL",
			score:   100,
			matched: []string{"go", "kubernetes", "postgresql"},
			missing: []string{},
		},
		{
			name:    "partial match",
			resume:  "python and docker",
			skills:  "Python,Docker,AWS,Terraform,Ansible,Helm,Jenkins,Git",
			score:   25,
			matched: []string{"python", "docker"},
			missing: []string{"aws", "terraform", "ansible", "helm", "jenkins", "git"},
		},
		{
			name:    "one of eight rounds 12.5 up to 13",
			resume:  "python",
			skills:  "python,a1,a2,a3,a4,a5,a6,a7",
			score:   13,
			matched: []string{"python"},
			missing: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"},
		},
		{
			name:    "one of three rounds down",
			resume:  "rust",
			skills:  "rust, go, zig",
			score:   33,
			matched: []string{"rust"},
			missing: []string{"go", "zig"},
		},
		{
			name:    "two of three rounds up",
			resume:  "rust and go",
			skills:  "rust, go, zig",
			score:   67,
			matched: []string{"rust", "go"},
			missing: []string{"zig"},
		},
		{
			name:    "substring collision counts",
			resume:  "I know javascript well",
			skills:  "java",
			score:   100,
			matched: []string{"java"},
			missing: []string{},
		},
		{
			name:    "punctuation in resume becomes whitespace",
			resume:  "Skills:\n\tMachine-Learning; (SQL)",
			skills:  "machine learning, sql",
			score:   100,
			matched: []string{"machine learning", "sql"},
			missing: []string{},
		},
		{
			name:    "punctuation in skills is kept",
			resume:  "C++ and Node.js",
			skills:  "c++, node.js, node",
			score:   33,
			matched: []string{"node"},
			missing: []string{"c++", "node.js"},
		},
		{
			name:    "duplicate skills count twice",
			resume:  "react developer",
			skills:  "React, React, Node",
			score:   67,
			matched: []string{"react", "react"},
			missing: []string{"node"},
		},
		{
			name:    "empty resume",
			resume:  "",
			skills:  "go",
			score:   0,
			matched: []string{},
			missing: []string{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Match(tt.resume, tt.skills)

			if got.MatchScore != tt.score {
				t.Fatalf("expected score %d, got %d", tt.score, got.MatchScore)
			}
			if !slices.Equal(got.MatchedSkills, tt.matched) {
				t.Fatalf("unexpected matched skills: %v", got.MatchedSkills)
			}
			if !slices.Equal(got.MissingSkills, tt.missing) {
				t.Fatalf("unexpected missing skills: %v", got.MissingSkills)
			}
		})
	}
}

func TestMatchEmptySkillsIsPerfect(t *testing.T) {
	t.Parallel()

	for _, skills := range []string{"", " ", ",,", " , ,"} {
		for _, resume := range []string{"", "anything at all"} {
			got := Match(resume, skills)
			if got.MatchScore != 100 {
				t.Fatalf("expected score 100 for skills %q, got %d", skills, got.MatchScore)
			}
			if got.MatchedSkills == nil || len(got.MatchedSkills) != 0 {
				t.Fatalf("expected empty matched skills, got %v", got.MatchedSkills)
			}
			if got.MissingSkills == nil || len(got.MissingSkills) != 0 {
				t.Fatalf("expected empty missing skills, got %v", got.MissingSkills)
			}
		}
	}
}

func TestMatchPartitionsRequiredSkills(t *testing.T) {
	t.Parallel()

	resume := "go, kubernetes, grpc and a bit of terraform"
	pool := []string{"go", "rust", "kubernetes", "grpc", "kafka", "terraform", "elixir"}

	for n := 1; n <= len(pool); n++ {
		skills := pool[:n]
		csv := ""
		for i, skill := range skills {
			if i > 0 {
				csv += ","
			}
			csv += skill
		}

		got := Match(resume, csv)
		if len(got.MatchedSkills)+len(got.MissingSkills) != n {
			t.Fatalf("n=%d: matched+missing=%d", n, len(got.MatchedSkills)+len(got.MissingSkills))
		}
		if got.MatchScore != Score(len(got.MatchedSkills), n) {
			t.Fatalf("n=%d: score %d does not follow matched count", n, got.MatchScore)
		}
		for _, skill := range got.MatchedSkills {
			if slices.Contains(got.MissingSkills, skill) {
				t.Fatalf("n=%d: skill %q both matched and missing", n, skill)
			}
		}
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	for required := 1; required <= 40; required++ {
		for matched := 0; matched <= required; matched++ {
			expected := int(float64(100*matched)/float64(required) + 0.5)
			if got := Score(matched, required); got != expected {
				t.Fatalf("Score(%d, %d) = %d, expected %d", matched, required, got, expected)
			}
		}
	}
}

func TestParseSkills(t *testing.T) {
	t.Parallel()

	got := ParseSkills("  Go ,, KUBERNETES,  Machine Learning ,go,")
	expected := []string{"go", "kubernetes", "machine learning", "go"}
	if !slices.Equal(got, expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "Hello, World!", expect: "hello, world"},
		{input: "  Go/Rust\n\n\tC#  ", expect: "go rust c"},
		{input: "Café résumé", expect: "caf r sum"},
		{input: "", expect: ""},
		{input: "!!!", expect: ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
