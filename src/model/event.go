package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Oichkatzelesfrettschen/minix318-sub000/src/capability"
)

// Outcome of one gated yield.
type Outcome uint8

const (
	OutcomeSwitched Outcome = iota
	OutcomeNullCapability
	OutcomeInvalidCapability
	OutcomeNoContext
	OutcomeSwitchFailed
)

var outcomeNames = [...]string{
	OutcomeSwitched:          "switched",
	OutcomeNullCapability:    "null-capability",
	OutcomeInvalidCapability: "invalid-capability",
	OutcomeNoContext:         "no-context",
	OutcomeSwitchFailed:      "switch-failed",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

func ParseOutcome(s string) (Outcome, error) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// SwitchEvent records one attempt by a scheduler to yield to a capability.
type SwitchEvent struct {
	Seq       uint64
	Time      time.Time
	Scheduler string
	Handle    capability.Handle
	Resource  uint32
	Outcome   Outcome
}

// Write a SwitchEvent.
func (e *SwitchEvent) Write(writer io.Writer) (err error) {
	// Format mimics HTTP:
	// Headers - "Key: Value" separated by \n
	// Followed by empty line
	_, err = fmt.Fprintf(writer,
		"Seq: %d\nTime: %d\nScheduler: %s\nHandle: %d\nResource: %d\nOutcome: %s\n\n",
		e.Seq, e.Time.UnixNano(), e.Scheduler, uint32(e.Handle), e.Resource, e.Outcome)
	return
}

// Read a SwitchEvent.
func ReadSwitchEvent(reader *bufio.Reader) (ev *SwitchEvent, err error) {
	headers, err := readHeaders(reader)
	if err != nil {
		return nil, err
	}

	event := &SwitchEvent{}
	for key, value := range headers {
		switch key {
		case "Seq":
			if event.Seq, err = strconv.ParseUint(value, 10, 64); err != nil {
				return nil, err
			}
		case "Time":
			var ns int64
			if ns, err = strconv.ParseInt(value, 10, 64); err != nil {
				return nil, err
			}
			event.Time = time.Unix(0, ns)
		case "Scheduler":
			event.Scheduler = value
		case "Handle":
			var h uint64
			if h, err = strconv.ParseUint(value, 10, 32); err != nil {
				return nil, err
			}
			event.Handle = capability.Handle(h)
		case "Resource":
			var r uint64
			if r, err = strconv.ParseUint(value, 10, 32); err != nil {
				return nil, err
			}
			event.Resource = uint32(r)
		case "Outcome":
			if event.Outcome, err = ParseOutcome(value); err != nil {
				return nil, err
			}
		}
	}
	return event, nil
}
