package ai

import (
	"errors"
	"testing"
)

func TestCleanJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading prose", "Here is the result:\n{\"a\": 1}", `{"a": 1}`},
		{"trailing prose", "{\"a\": 1}\nLet me know if you need more.", `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"whitespace", "  \n {\"a\": 1} \n ", `{"a": 1}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := CleanJSON(c.in)
			if err != nil {
				t.Fatalf("CleanJSON(%q) error: %v", c.in, err)
			}
			if got != c.want {
				t.Fatalf("CleanJSON(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestCleanJSONNoObject(t *testing.T) {
	for _, in := range []string{"", "no json here", "```\nplain text\n```", "}{"} {
		if _, err := CleanJSON(in); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("CleanJSON(%q) = %v, want ErrNoJSON", in, err)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	raw := "```json\n{\"title\": \"Backend Engineer\"}\n```"
	if err := DecodeJSON(raw, &out); err != nil {
		t.Fatalf("DecodeJSON error: %v", err)
	}
	if out.Title != "Backend Engineer" {
		t.Fatalf("Title = %q, want %q", out.Title, "Backend Engineer")
	}
}

func TestDecodeJSONMalformed(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON(`{"broken": `, &out); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
