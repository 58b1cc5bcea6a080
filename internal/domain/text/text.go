// Package text normalizes user-supplied strings: comma lists, Title Case
// names, and free text stripped of markup.
package text

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokens splits a comma-separated list, trims each item and drops empty and
// repeated items. Order of first occurrence is kept.
func Tokens(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	// cases.Caser keeps state; one per call.
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// TitleCaseAll applies TitleCase to every item and drops duplicates created by it.
func TitleCaseAll(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		t := TitleCase(item)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// TitleTokens is Tokens followed by TitleCaseAll.
func TitleTokens(csv string) []string {
	return TitleCaseAll(Tokens(csv))
}

// PlainText reduces s to its text content. Tags are dropped, entities are
// decoded, and script and style bodies are removed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			if isRaw(z) {
				skip++
			}
		case html.EndTagToken:
			if isRaw(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// PlainTextAll applies PlainText to every item, dropping items left empty.
func PlainTextAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := PlainText(item); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isRaw(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	a := atom.Lookup(name)
	return a == atom.Script || a == atom.Style
}
