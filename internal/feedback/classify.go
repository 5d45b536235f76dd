package feedback

import "strings"

// Pattern segments: "*" matches exactly one path segment, a trailing "**"
// matches one or more remaining segments.
type rule struct {
	pattern  []string
	category Category
}

// Rules are evaluated in order; the first match wins.
var rules = []rule{
	{split("/eos/out/dmx/**"), CategoryDiscard},
	{split("/eos/out/user/*/action"), CategoryUserAction},
	{split("/eos/out/user/*/selection"), CategorySelection},
	{split("/eos/out/cue/**"), CategoryCue},
	{split("/eos/out/patch/*"), CategoryPatch},
	{split("/eos/out/playback/*"), CategoryPlayback},
	{split("/eos/out/notify"), CategoryNotify},
	{split("/eos/out/error"), CategoryError},
	{split("/eos/out/event"), CategoryEvent},
}

// Classify maps an OSC topic to its category. Unmatched or malformed topics
// fall through to CategoryOther.
func Classify(topic string) Category {
	segs := split(topic)
	for _, r := range rules {
		if match(r.pattern, segs) {
			return r.category
		}
	}
	return CategoryOther
}

func split(topic string) []string {
	return strings.Split(strings.TrimPrefix(topic, "/"), "/")
}

func match(pattern, segs []string) bool {
	for i, p := range pattern {
		if p == "**" {
			return len(segs) > i && i == len(pattern)-1
		}
		if i >= len(segs) {
			return false
		}
		if p != "*" && p != segs[i] {
			return false
		}
		if p == "*" && segs[i] == "" {
			return false
		}
	}
	return len(pattern) == len(segs)
}
