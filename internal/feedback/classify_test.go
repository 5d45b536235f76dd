package feedback

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := map[string]Category{
		"/eos/out/dmx/1":                CategoryDiscard,
		"/eos/out/dmx/1/512":            CategoryDiscard,
		"/eos/out/user/1/action":        CategoryUserAction,
		"/eos/out/user/12/action":       CategoryUserAction,
		"/eos/out/user/1/selection":     CategorySelection,
		"/eos/out/cue/1/5":              CategoryCue,
		"/eos/out/cue/1":                CategoryCue,
		"/eos/out/cue/1/5/fire":         CategoryCue,
		"/eos/out/patch/12":             CategoryPatch,
		"/eos/out/playback/1":           CategoryPlayback,
		"/eos/out/notify":               CategoryNotify,
		"/eos/out/error":                CategoryError,
		"/eos/out/event":                CategoryEvent,
		"/eos/out/ping":                 CategoryOther,
		"/eos/out/user/1/2/action":      CategoryOther,
		"/eos/out/user//action":         CategoryOther,
		"/eos/out/patch/12/augment3d":   CategoryOther,
		"/eos/out/error/extra":          CategoryOther,
		"":                              CategoryOther,
		"not a topic":                   CategoryOther,
		"/somewhere/else":               CategoryOther,
		"eos/out/error":                 CategoryError,
		"/eos/out/active/chan":          CategoryOther,
		"/eos/out/dmx":                  CategoryOther,
		"/eos/out/user/1/action/extra":  CategoryOther,
		"/eos/out/playback/1/state/now": CategoryOther,
	}
	for topic, want := range cases {
		if got := Classify(topic); got != want {
			t.Errorf("Classify(%q) = %q, want %q", topic, got, want)
		}
		if again := Classify(topic); again != Classify(topic) {
			t.Errorf("Classify(%q) not deterministic", topic)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}
	if got, err := ParseCategory(" Error "); err != nil || got != CategoryError {
		t.Fatalf("expected case-insensitive parse, got %q, %v", got, err)
	}
	if _, err := ParseCategory("discard"); err == nil {
		t.Fatalf("discard must not be a queryable category")
	}
	if _, err := ParseCategory("bogus"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestActionFromUserAction(t *testing.T) {
	ts := time.Unix(100, 0)
	msg := NewMessage(ts, "/eos/out/user/1/action", []Argument{Text("Chan 1 At 50"), Number(1)})
	if msg.Category != CategoryUserAction {
		t.Fatalf("unexpected category %q", msg.Category)
	}
	act := ActionFrom(msg)
	if act.CommandText() != "Chan 1 At 50 1" {
		t.Fatalf("unexpected command %q", act.CommandText())
	}
	if !act.Timestamp.Equal(ts) || act.Topic != msg.Topic {
		t.Fatalf("action lost message metadata: %+v", act)
	}
}

func TestArgumentJSON(t *testing.T) {
	args := []Argument{Text("Go"), Number(1.5), Number(50)}
	b, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `["Go",1.5,50]` {
		t.Fatalf("unexpected json %s", b)
	}
	var back []Argument
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0] != Text("Go") || back[1] != Number(1.5) {
		t.Fatalf("unexpected round trip %+v", back)
	}
}

func TestArgumentJSONNonFinite(t *testing.T) {
	args := []Argument{Number(math.NaN()), Number(math.Inf(1)), Number(math.Inf(-1)), Text("Inf")}
	b, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `["NaN","+Inf","-Inf","Inf"]` {
		t.Fatalf("unexpected json %s", b)
	}
	var back []Argument
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0].Kind != ArgNumber || !math.IsNaN(back[0].Number) {
		t.Fatalf("expected NaN number, got %+v", back[0])
	}
	if back[1] != Number(math.Inf(1)) || back[2] != Number(math.Inf(-1)) || back[3] != Text("Inf") {
		t.Fatalf("unexpected round trip %+v", back)
	}
}

func TestNewMessageCopiesArguments(t *testing.T) {
	args := []Argument{Text("a")}
	msg := NewMessage(time.Now(), "/eos/out/notify", args)
	args[0] = Text("mutated")
	if msg.Arguments[0].Text != "a" {
		t.Fatalf("message shares argument storage with caller")
	}
}
