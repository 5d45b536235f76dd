package analytics

import (
	"strings"
	"unicode"
)

// TagOther is assigned to commands no rule recognises.
const TagOther = "other"

// ActionRule tags a command when any of its words equals one of Keywords.
type ActionRule struct {
	Tag      string
	Keywords []string
}

// ActionRules is evaluated in order; the first matching rule wins.
var ActionRules = []ActionRule{
	{Tag: "cue", Keywords: []string{"cue", "record", "go", "fire"}},
	{Tag: "channel", Keywords: []string{"chan", "channel"}},
	{Tag: "submaster", Keywords: []string{"sub", "submaster"}},
	{Tag: "group", Keywords: []string{"group"}},
	{Tag: "palette", Keywords: []string{"palette"}},
	{Tag: "preset", Keywords: []string{"preset"}},
	{Tag: "effect", Keywords: []string{"effect"}},
	{Tag: "macro", Keywords: []string{"macro"}},
	{Tag: "patch", Keywords: []string{"patch"}},
}

// TagAction classifies command tokens with ActionRules.
func TagAction(command []string) string {
	return tagWith(ActionRules, command)
}

func tagWith(rules []ActionRule, command []string) string {
	words := make(map[string]bool)
	for _, tok := range command {
		for _, w := range strings.FieldsFunc(strings.ToLower(tok), notWordRune) {
			words[w] = true
		}
	}
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if words[kw] {
				return r.Tag
			}
		}
	}
	return TagOther
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
