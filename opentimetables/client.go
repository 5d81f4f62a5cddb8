package opentimetables

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gocolly/colly"
	"golang.org/x/exp/maps"
)

// DateRange is a half-open window [Start, End) applied to session fetches.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Client talks to the Open Timetables broker API.
type Client struct {
	cfg       *Config
	collector *colly.Collector
	location  *time.Location
}

func NewClient(cfg *Config) (*Client, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(cfg.requestTimeout())

	return &Client{
		cfg:       cfg,
		collector: c,
		location:  loc,
	}, nil
}

// postJSON issues one POST to the broker with the required headers and
// returns the raw response body. Each call clones the collector so response
// callbacks do not leak between requests.
func (c *Client) postJSON(url string, payload []byte) ([]byte, error) {
	collector := c.collector.Clone()

	var body []byte
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Content-Type", "application/json; charset=utf-8")
		r.Headers.Set("Authorization", c.cfg.Authorization)
	})
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})

	if err := collector.PostRaw(url, payload); err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	if body == nil {
		return nil, &NetworkError{URL: url, Err: errors.New("empty response")}
	}
	return body, nil
}

// FetchCatalogue downloads the full module catalogue, walking every page of
// the category filter endpoint and merging the results.
func (c *Client) FetchCatalogue() (map[string]Module, error) {
	catalogue := make(map[string]Module)

	page, totalPages := 1, 1
	for page <= totalPages {
		url := fmt.Sprintf("%sbroker/api/CategoryTypes/%s/Categories/Filter?pageNumber=%d&query=",
			c.cfg.BaseURL, c.cfg.CategoryTypeID, page)

		body, err := c.postJSON(url, nil)
		if err != nil {
			return nil, err
		}

		modules, pages, err := parseCataloguePage(body)
		if err != nil {
			return nil, &ParseError{URL: url, Err: err}
		}
		maps.Copy(catalogue, modules)

		if pages < totalPages {
			// The service occasionally reports fewer pages mid-walk; trust
			// the first answer so the loop still terminates.
			pages = totalPages
		}
		totalPages = pages
		page++
	}

	log.Printf("Loaded %d modules from %s", len(catalogue), c.cfg.BaseURL)
	return catalogue, nil
}

// FetchSessions requests the scheduled sessions of a single module within
// the given window. Sessions outside the window are dropped even if the
// service returns them.
func (c *Client) FetchSessions(module Module, window DateRange) ([]Session, error) {
	request := eventsFilterRequest{
		ViewOptions: viewOptions{
			DatePeriods: []datePeriod{{
				StartDateTime: window.Start.UTC().Format(brokerTimeLayout),
				EndDateTime:   window.End.UTC().Format(brokerTimeLayout),
			}},
		},
		CategoryIdentities: []string{module.Identity},
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%sbroker/api/categoryTypes/%s/categories/events/filter",
		c.cfg.BaseURL, c.cfg.CategoryTypeID)

	body, err := c.postJSON(url, payload)
	if err != nil {
		return nil, err
	}

	sessions, err := parseSessions(body, module, c.location)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	kept := sessions[:0]
	for _, s := range sessions {
		if !s.Start.Before(window.Start) && s.Start.Before(window.End) {
			kept = append(kept, s)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start.Before(kept[j].Start) })
	return kept, nil
}
