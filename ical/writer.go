package ical

import (
	"encoding/base64"
	"os"

	ics "github.com/arran4/golang-ical"
)

const productID = "-//ottcal//Open Timetables extractor//EN"

// Calendar collects canonical events for serialization.
type Calendar struct {
	Name   string // X-WR-CALNAME, shown by calendar applications on import
	Events []Event
}

// Serialize renders the calendar as RFC 5545 iCalendar text.
func (c *Calendar) Serialize() string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	if c.Name != "" {
		cal.SetXWRCalName(c.Name)
	}

	for _, e := range c.Events {
		event := cal.AddEvent(e.UID)
		// DTSTAMP is pinned to the event start rather than the run time so
		// repeated runs produce byte-identical output for unchanged sessions.
		event.SetDtStampTime(e.Start)
		event.SetStartAt(e.Start)
		event.SetEndAt(e.End)
		event.SetSummary(e.Summary)
		if e.Location != "" {
			event.SetLocation(e.Location)
		}
		if e.Description != "" {
			event.SetDescription(e.Description)
		}
		if e.Recurrence != "" {
			event.AddRrule(e.Recurrence)
		}
	}

	return cal.Serialize()
}

// WriteFile writes the serialized calendar to path, replacing any previous
// content.
func (c *Calendar) WriteFile(path string) error {
	return os.WriteFile(path, []byte(c.Serialize()), 0644)
}

// ViewerURL hands the serialized calendar to an external online viewer by
// embedding it in the URL fragment as a base64 data payload.
func (c *Calendar) ViewerURL(viewerBase string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.Serialize()))
	return viewerBase + "#data:text/calendar;base64," + encoded
}
