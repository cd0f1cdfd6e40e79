package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/slopjournal/pkg/formatting"
)

type verdict struct {
	Decision  string `json:"decision"`
	Reasoning string `json:"reasoning"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "fenced json block",
			input: "Sure!\n```json\n{\"decision\":\"reject\"}\n```\nbye",
			want:  "{\"decision\":\"reject\"}\n",
		},
		{
			name:  "fence tag is case-insensitive",
			input: "```JSON{\"a\":1}```",
			want:  "{\"a\":1}",
		},
		{
			name:  "brace span",
			input: "My verdict: {\"decision\":\"publish_now\"} thanks",
			want:  "{\"decision\":\"publish_now\"}",
		},
		{
			name:  "outermost braces",
			input: "x {\"a\":{\"b\":1}} y",
			want:  "{\"a\":{\"b\":1}}",
		},
		{
			name:  "untagged fence falls through to braces",
			input: "```\n{\"a\":2}\n```",
			want:  "{\"a\":2}",
		},
		{
			name:  "no json",
			input: "I refuse.",
			want:  "I refuse.",
		},
		{
			name:  "closing brace before opening",
			input: "} oops {",
			want:  "} oops {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		got, err := formatting.Parse[verdict](`  {"decision":"reject","reasoning":"meh"}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Decision != "reject" || got.Reasoning != "meh" {
			t.Errorf("Parse = %+v", got)
		}
	})

	t.Run("fenced with prose", func(t *testing.T) {
		input := "Here you go:\n```json\n{\"decision\":\"publish_now\",\"reasoning\":\"peak slop\"}\n```"
		got, err := formatting.Parse[verdict](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Decision != "publish_now" {
			t.Errorf("Decision = %q, want publish_now", got.Decision)
		}
	})

	t.Run("non-object into any", func(t *testing.T) {
		got, err := formatting.Parse[any]("[1]")
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if list, ok := got.([]any); !ok || len(list) != 1 {
			t.Errorf("Parse = %#v, want one-element slice", got)
		}
	})

	t.Run("non-object into map", func(t *testing.T) {
		_, err := formatting.Parse[map[string]any](`"ok"`)
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := formatting.Parse[verdict]("{decision: reject}")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})
}
