package opentimetables

import (
	"regexp"
	"time"
)

// Module is one catalogue entry of the timetable service.
type Module struct {
	Identity   string `json:"identity"`             // opaque identifier used by the broker API
	Title      string `json:"title"`                // course code plus free text (eg. "CSCM69_A Mobile Interaction Design")
	Occurrence string `json:"occurrence,omitempty"` // sub-code distinguishing offerings of the same module (eg. "A")
}

// Session is one scheduled occurrence of a module.
type Session struct {
	ModuleIdentity string    `json:"moduleIdentity"`
	ModuleTitle    string    `json:"moduleTitle"`
	Summary        string    `json:"summary"`   // event name as published by the service
	EventType      string    `json:"eventType"` // eg. "Lecture" or "Laboratory"
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	Recurrence     string    `json:"recurrence,omitempty"` // RRULE value when the session repeats
}

var occurrencePattern = regexp.MustCompile(`^[A-Z]{2,8}[0-9]{2,4}_([A-Z0-9]{1,4})\b`)

// occurrenceFromTitle extracts the occurrence sub-code from a catalogue
// title, eg. "CSCM69_A Mobile Interaction Design" yields "A".
func occurrenceFromTitle(title string) string {
	match := occurrencePattern.FindStringSubmatch(title)
	if len(match) == 2 {
		return match[1]
	}
	return ""
}
