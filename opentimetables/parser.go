package opentimetables

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// brokerTimeLayout is the timestamp format the broker expects in filter
// request bodies.
const brokerTimeLayout = "2006-01-02T15:04:05.000Z"

// eventsFilterRequest mirrors the body of the broker's events/filter
// endpoint. Only the fields this tool needs are modelled; the service
// ignores omitted ones.
type eventsFilterRequest struct {
	ViewOptions        viewOptions `json:"ViewOptions"`
	CategoryIdentities []string    `json:"CategoryIdentities"`
}

type viewOptions struct {
	DatePeriods []datePeriod `json:"DatePeriods"`
}

type datePeriod struct {
	StartDateTime string `json:"StartDateTime"`
	EndDateTime   string `json:"EndDateTime"`
}

type cataloguePage struct {
	TotalPages  int `json:"TotalPages"`
	CurrentPage int `json:"CurrentPage"`
	Count       int `json:"Count"`
	Results     []struct {
		Name     string `json:"Name"`
		Identity string `json:"Identity"`
	} `json:"Results"`
}

type categoryEventsResult struct {
	Name           string        `json:"Name"`
	Identity       string        `json:"Identity"`
	CategoryEvents []brokerEvent `json:"CategoryEvents"`
}

type brokerEvent struct {
	Name            string `json:"Name"`
	EventType       string `json:"EventType"`
	StartDateTime   string `json:"StartDateTime"`
	EndDateTime     string `json:"EndDateTime"`
	Location        string `json:"Location"`
	Description     string `json:"Description"`
	ExtraProperties []struct {
		DisplayName string `json:"DisplayName"`
		Value       string `json:"Value"`
	} `json:"ExtraProperties"`
}

// parseCataloguePage decodes one page of the category filter response into
// Module records keyed by identity, returning the reported page count.
func parseCataloguePage(body []byte) (map[string]Module, int, error) {
	var page cataloguePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, 0, err
	}

	modules := make(map[string]Module, len(page.Results))
	for _, result := range page.Results {
		if result.Identity == "" {
			continue
		}
		title := strings.TrimSpace(stripHTML(result.Name))
		modules[result.Identity] = Module{
			Identity:   result.Identity,
			Title:      title,
			Occurrence: occurrenceFromTitle(title),
		}
	}
	return modules, page.TotalPages, nil
}

// parseSessions decodes an events/filter response into Session records for
// the given module.
func parseSessions(body []byte, module Module, loc *time.Location) ([]Session, error) {
	var results []categoryEventsResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}

	var sessions []Session
	for _, result := range results {
		for _, event := range result.CategoryEvents {
			start, err := parseBrokerTime(event.StartDateTime, loc)
			if err != nil {
				return nil, fmt.Errorf("bad start time %q: %w", event.StartDateTime, err)
			}
			end, err := parseBrokerTime(event.EndDateTime, loc)
			if err != nil {
				return nil, fmt.Errorf("bad end time %q: %w", event.EndDateTime, err)
			}

			location := stripHTML(event.Location)

			description := fmt.Sprintf("Module name: %s\nEvent type: %s", module.Title, event.EventType)
			if location != "" {
				description += "\nLocation: " + location
			}
			for _, property := range event.ExtraProperties {
				if property.DisplayName == "Photo" {
					description += "\nVenue photo: " + property.Value
				}
			}

			sessions = append(sessions, Session{
				ModuleIdentity: module.Identity,
				ModuleTitle:    module.Title,
				Summary:        strings.TrimSpace(stripHTML(event.Name)),
				EventType:      event.EventType,
				Start:          start,
				End:            end,
				Location:       location,
				Description:    description,
			})
		}
	}
	return sessions, nil
}

// parseBrokerTime handles both zoned ISO 8601 timestamps and the zoneless
// variant some deployments emit, which is taken to be institution-local.
func parseBrokerTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, loc)
}

// stripHTML reduces an HTML fragment to its text content. Location and name
// fields occasionally carry markup such as <span> wrappers or entities.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
