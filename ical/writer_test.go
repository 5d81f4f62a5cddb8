package ical

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/go-cmp/cmp"
)

type eventTuple struct {
	UID      string
	Start    time.Time
	End      time.Time
	Summary  string
	Location string
}

func testEvents() []Event {
	start := time.Date(2025, time.October, 6, 10, 0, 0, 0, time.UTC)
	return []Event{
		{
			UID:      "aaaa-1@ottcal",
			Summary:  "CSCM69 Lecture",
			Start:    start,
			End:      start.Add(time.Hour),
			Location: "Computational Foundry 201",
		},
		{
			UID:      "bbbb-2@ottcal",
			Summary:  "CSCM45 Laboratory",
			Start:    start.AddDate(0, 0, 2),
			End:      start.AddDate(0, 0, 2).Add(2 * time.Hour),
			Location: "Library Lab 3",
		},
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	calendar := &Calendar{Name: "Lectures for modules CSCM69 CSCM45", Events: testEvents()}

	parsed, err := ics.ParseCalendar(strings.NewReader(calendar.Serialize()))
	if err != nil {
		t.Fatalf("serialized calendar does not parse: %v", err)
	}

	var got []eventTuple
	for _, ve := range parsed.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			t.Fatalf("could not read DTSTART: %v", err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			t.Fatalf("could not read DTEND: %v", err)
		}
		got = append(got, eventTuple{
			UID:      ve.GetProperty(ics.ComponentPropertyUniqueId).Value,
			Start:    start.UTC(),
			End:      end.UTC(),
			Summary:  ve.GetProperty(ics.ComponentPropertySummary).Value,
			Location: ve.GetProperty(ics.ComponentPropertyLocation).Value,
		})
	}

	var want []eventTuple
	for _, e := range testEvents() {
		want = append(want, eventTuple{
			UID:      e.UID,
			Start:    e.Start.UTC(),
			End:      e.End.UTC(),
			Summary:  e.Summary,
			Location: e.Location,
		})
	}

	sort.Slice(got, func(i, j int) bool { return got[i].UID < got[j].UID })
	sort.Slice(want, func(i, j int) bool { return want[i].UID < want[j].UID })

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	first := (&Calendar{Name: "Lectures", Events: testEvents()}).Serialize()
	second := (&Calendar{Name: "Lectures", Events: testEvents()}).Serialize()
	if first != second {
		t.Error("two serializations of the same events differ; re-imports would see spurious updates")
	}
}

func TestSerializeRecurrence(t *testing.T) {
	events := testEvents()
	events[0].Recurrence = "FREQ=WEEKLY;UNTIL=20251027T100000Z"
	calendar := &Calendar{Events: events}

	serialized := calendar.Serialize()
	if !strings.Contains(serialized, "RRULE:FREQ=WEEKLY;UNTIL=20251027T100000Z") {
		t.Errorf("serialized calendar is missing the RRULE:\n%s", serialized)
	}
	if strings.Count(serialized, "RRULE:") != 1 {
		t.Errorf("expected exactly one RRULE line:\n%s", serialized)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ics")
	calendar := &Calendar{Events: testEvents()}

	if err := calendar.WriteFile(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "BEGIN:VCALENDAR") {
		t.Errorf("file does not start a VCALENDAR:\n%.80s", content)
	}
	if strings.Count(content, "BEGIN:VEVENT") != 2 {
		t.Errorf("expected 2 VEVENT blocks:\n%s", content)
	}
}

func TestViewerURL(t *testing.T) {
	calendar := &Calendar{Events: testEvents()}
	url := calendar.ViewerURL("https://viewer.example/")

	if !strings.HasPrefix(url, "https://viewer.example/#data:text/calendar;base64,") {
		t.Fatalf("unexpected viewer URL: %.100s", url)
	}

	encoded := url[strings.Index(url, "base64,")+len("base64,"):]
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if !strings.Contains(string(decoded), "BEGIN:VEVENT") {
		t.Error("decoded payload is not the calendar")
	}
}
