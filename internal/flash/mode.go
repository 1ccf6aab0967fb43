package flash

import (
	"fmt"
	"strings"
)

// Mode is the single active activity of a Controller.
type Mode int

const (
	Idle Mode = iota
	Recording
	Playing
	Exporting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Playing:
		return "playing"
	case Exporting:
		return "exporting"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// AfterRecord selects what happens when a recording session completes.
type AfterRecord int

const (
	AfterRecordPlay AfterRecord = iota
	AfterRecordExport
	AfterRecordNone
)

var afterRecordNames = []string{"play", "export", "none"}

func (a AfterRecord) String() string {
	if a < 0 || int(a) >= len(afterRecordNames) {
		return fmt.Sprintf("after(%d)", int(a))
	}
	return afterRecordNames[a]
}

// Next cycles through the post-record actions.
func (a AfterRecord) Next() AfterRecord {
	return AfterRecord((int(a) + 1) % len(afterRecordNames))
}

// AfterRecordNames lists the accepted names for ParseAfterRecord.
func AfterRecordNames() []string {
	out := make([]string, len(afterRecordNames))
	copy(out, afterRecordNames)
	return out
}

// ParseAfterRecord maps a config or flag value to an AfterRecord.
func ParseAfterRecord(s string) (AfterRecord, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range afterRecordNames {
		if s == name {
			return AfterRecord(i), nil
		}
	}
	return AfterRecordPlay, fmt.Errorf("unknown after-record action %q (available: %s)", s, strings.Join(afterRecordNames, ", "))
}
