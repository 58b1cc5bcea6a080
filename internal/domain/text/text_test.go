package text

import (
	"slices"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{" a , b ,,c ", []string{"a", "b", "c"}},
		{"a,a,b", []string{"a", "b"}},
		{" , ", []string{}},
	}
	for _, tt := range tests {
		if got := Tokens(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("Tokens(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"olive oil":   "Olive Oil",
		"OLIVE OIL":   "Olive Oil",
		"  garlic ":   "Garlic",
		"gluten free": "Gluten Free",
		"":            "",
	}
	for in, want := range tests {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTitleTokens_MergesCaseVariants(t *testing.T) {
	got := TitleTokens("vegan, Vegan ,VEGAN,quick")
	if !slices.Equal(got, []string{"Vegan", "Quick"}) {
		t.Errorf("TitleTokens = %v", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"<b>bold</b> move", "bold move"},
		{`<img src=x onerror="alert(1)">tasty`, "tasty"},
		{"<script>alert(1)</script>safe", "safe"},
		{"salt &amp; pepper", "salt & pepper"},
		{"<p>one</p><p>two</p>", "onetwo"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextAll(t *testing.T) {
	got := PlainTextAll([]string{"<i>stir</i>", "<br>", "bake"})
	if !slices.Equal(got, []string{"stir", "bake"}) {
		t.Errorf("PlainTextAll = %v", got)
	}
}
