// Package vote extracts vote lifecycle events from DDNet console log text.
package vote

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind is the type of a vote lifecycle event.
type Kind int

const (
	KindStarted Kind = iota + 1
	KindPassed
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindStarted:
		return "started"
	case KindPassed:
		return "passed"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrContractViolation means a line matched the vote envelope but none of the
// payload forms. The two pattern families are out of sync; this is a bug.
var ErrContractViolation = errors.New("vote line matched envelope but no known form")

// timeLayout is the console log timestamp format.
const timeLayout = "2006-01-02 15:04:05"

// Vote is a player-initiated vote as announced by the server.
type Vote struct {
	Player string
	Name   string
	Reason string
}

// Action splits the vote name on its first run of whitespace, e.g.
// "generate easy" becomes ("generate", "easy").
func (v Vote) Action() (action, arg string) {
	name := strings.TrimSpace(v.Name)
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		return name[:i], strings.TrimSpace(name[i+1:])
	}
	return name, ""
}

// Event is one vote lifecycle observation.
type Event struct {
	Kind Kind
	Time time.Time

	// Vote is set for KindStarted.
	Vote Vote

	// Detail is any text following "Vote passed".
	Detail string
}

var (
	// envelopeRe matches every vote announcement. Its payload alternatives
	// must stay in step with classify.
	envelopeRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) I chat: \*\*\* (Vote passed(?: .*)?|Vote failed|'.+' called .+ option '.+' \(.*\))$`)

	// The reason is player text and may contain "' (", so the option name
	// stops at the first "' (" and the reason runs to the final ")".
	startedRe = regexp.MustCompile(`^'(.+?)' called .+? option '(.+?)' \((.*)\)$`)
)

const (
	passedPayload = "Vote passed"
	failedPayload = "Vote failed"
)

// Parse returns the vote events in text in document order. Only
// newline-terminated lines are considered; a trailing fragment is ignored.
// Lines that are not vote announcements produce nothing.
//
// Chunks are parsed independently, so a line split across two reads is
// dropped. This is intentional: the bridge keeps no buffer between reads.
func Parse(text string) ([]Event, error) {
	lines := strings.Split(text, "\n")
	lines = lines[:len(lines)-1]

	var events []Event
	for _, line := range lines {
		m := envelopeRe.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil {
			continue
		}
		ev, err := classify(m[2])
		if err != nil {
			return events, err
		}
		if ts, err := time.ParseInLocation(timeLayout, m[1], time.Local); err == nil {
			ev.Time = ts
		}
		events = append(events, ev)
	}
	return events, nil
}

func classify(payload string) (Event, error) {
	switch {
	case payload == passedPayload:
		return Event{Kind: KindPassed}, nil
	case strings.HasPrefix(payload, passedPayload+" "):
		return Event{Kind: KindPassed, Detail: strings.TrimPrefix(payload, passedPayload+" ")}, nil
	case payload == failedPayload:
		return Event{Kind: KindFailed}, nil
	}

	if m := startedRe.FindStringSubmatch(payload); m != nil {
		return Event{
			Kind: KindStarted,
			Vote: Vote{Player: m[1], Name: m[2], Reason: m[3]},
		}, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrContractViolation, payload)
}
