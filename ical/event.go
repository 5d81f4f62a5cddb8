package ical

import (
	"time"

	"github.com/google/uuid"

	"ottcal/opentimetables"
)

// eventNamespace anchors the deterministic event UIDs. It must never change,
// or re-imports would duplicate instead of update existing events.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("ottcal"))

// Event is the canonical calendar event produced from a Session.
type Event struct {
	UID         string
	Summary     string
	Start       time.Time
	End         time.Time
	Location    string
	Description string
	Recurrence  string // RRULE value, empty for one-off sessions
}

// Normalize maps a session onto a calendar event. The UID is a pure function
// of module identity, start time and location, so repeated runs yield
// matching UIDs for unchanged sessions and distinct UIDs for different ones.
func Normalize(s opentimetables.Session) Event {
	identity := s.ModuleIdentity + "|" + s.Start.UTC().Format(time.RFC3339) + "|" + s.Location
	uid := uuid.NewSHA1(eventNamespace, []byte(identity))

	return Event{
		UID:         uid.String() + "@ottcal",
		Summary:     s.Summary,
		Start:       s.Start,
		End:         s.End,
		Location:    s.Location,
		Description: s.Description,
		Recurrence:  s.Recurrence,
	}
}
