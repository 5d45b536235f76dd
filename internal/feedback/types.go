package feedback

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Category is the classification assigned to an OSC topic received from the console.
type Category string

const (
	CategoryUserAction Category = "user_action"
	CategorySelection  Category = "selection"
	CategoryCue        Category = "cue"
	CategoryPatch      Category = "patch"
	CategoryPlayback   Category = "playback"
	CategoryNotify     Category = "notify"
	CategoryError      Category = "error"
	CategoryEvent      Category = "event"
	CategorySignal     Category = "signal"
	CategoryOther      Category = "other"

	// CategoryDiscard marks traffic that is dropped before it reaches the history.
	CategoryDiscard Category = "discard"
)

var storedCategories = []Category{
	CategoryUserAction,
	CategorySelection,
	CategoryCue,
	CategoryPatch,
	CategoryPlayback,
	CategoryNotify,
	CategoryError,
	CategoryEvent,
	CategorySignal,
	CategoryOther,
}

// Categories returns the categories that can appear in the feedback log.
func Categories() []Category {
	out := make([]Category, len(storedCategories))
	copy(out, storedCategories)
	return out
}

// ParseCategory validates a category name supplied by a caller.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range storedCategories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// ArgKind tells which side of an Argument is set.
type ArgKind uint8

const (
	ArgText ArgKind = iota
	ArgNumber
)

// Argument is one positional OSC argument, either text or a number.
type Argument struct {
	Kind   ArgKind
	Text   string
	Number float64
}

func Text(s string) Argument { return Argument{Kind: ArgText, Text: s} }

func Number(n float64) Argument { return Argument{Kind: ArgNumber, Number: n} }

// String renders the argument as a single command token.
func (a Argument) String() string {
	if a.Kind == ArgNumber {
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	}
	return a.Text
}

// MarshalJSON writes the bare string or number, the way the console sent it.
// NaN and infinities have no JSON number form and are written as "NaN",
// "+Inf" or "-Inf".
func (a Argument) MarshalJSON() ([]byte, error) {
	if a.Kind == ArgNumber {
		if math.IsNaN(a.Number) || math.IsInf(a.Number, 0) {
			return json.Marshal(strconv.FormatFloat(a.Number, 'f', -1, 64))
		}
		return json.Marshal(a.Number)
	}
	return json.Marshal(a.Text)
}

func (a *Argument) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Number(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("argument must be a string or number: %w", err)
	}
	switch s {
	case "NaN", "+Inf", "-Inf":
		n, _ = strconv.ParseFloat(s, 64)
		*a = Number(n)
	default:
		*a = Text(s)
	}
	return nil
}

// Message is a classified feedback message kept in the general log.
type Message struct {
	Timestamp time.Time  `json:"timestamp"`
	Category  Category   `json:"category"`
	Topic     string     `json:"address"`
	Arguments []Argument `json:"args"`
}

// Content joins the argument tokens with spaces.
func (m Message) Content() string {
	return strings.Join(CommandTokens(m.Arguments), " ")
}

// Action is a human-issued command captured from a user_action message.
type Action struct {
	Timestamp time.Time `json:"timestamp"`
	Topic     string    `json:"address"`
	Command   []string  `json:"action"`
}

// CommandText is the command as a single line.
func (a Action) CommandText() string {
	return strings.Join(a.Command, " ")
}

// NewMessage classifies topic and builds the message stamped at ts.
// The arguments slice is copied.
func NewMessage(ts time.Time, topic string, args []Argument) Message {
	cp := make([]Argument, len(args))
	copy(cp, args)
	return Message{
		Timestamp: ts,
		Category:  Classify(topic),
		Topic:     topic,
		Arguments: cp,
	}
}

// ActionFrom extracts the operator action carried by a user_action message.
func ActionFrom(m Message) Action {
	return Action{
		Timestamp: m.Timestamp,
		Topic:     m.Topic,
		Command:   CommandTokens(m.Arguments),
	}
}

// CommandTokens turns OSC arguments into ordered text tokens.
func CommandTokens(args []Argument) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, a.String())
	}
	return out
}
