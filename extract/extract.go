// Package extract wires the extraction pipeline together: load the module
// catalogue, match the supplied codes, fetch each matched module's sessions
// for the requested period and write the result as an iCalendar file.
package extract

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/maps"

	"ottcal/ical"
	"ottcal/opentimetables"
	"ottcal/util"
)

// Options selects what to extract and where to put it.
type Options struct {
	Codes          []string
	Period         string    // year, s1, s2, today, week or next
	Output         string    // file path, or "view" for the online viewer
	RefreshCache   bool      // refresh and persist the catalogue cache
	CollapseWeekly bool      // merge weekly repeats into RRULEs
	Now            time.Time // zero means time.Now; fixed in tests
	Stdout         io.Writer // defaults to os.Stdout
}

// Run executes the pipeline. A failed session fetch for one module logs a
// warning and the remaining modules are still processed; a failed catalogue
// load aborts the run.
func Run(cfg *opentimetables.Config, opts Options) error {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	client, err := opentimetables.NewClient(cfg)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	bounds, err := cfg.PeriodBounds(now)
	if err != nil {
		return err
	}
	start, end, err := util.ResolvePeriod(opts.Period, now.In(loc), bounds)
	if err != nil {
		return err
	}

	catalogue, err := opentimetables.LoadCatalogue(client, cfg.CacheFile, opts.RefreshCache)
	if err != nil {
		return err
	}

	matched := opentimetables.Match(opts.Codes, catalogue)
	if len(matched) == 0 {
		log.Printf("Warning: %v", opentimetables.ErrNoMatch)
	}

	identities := maps.Keys(matched)
	sort.Strings(identities)

	var sessions []opentimetables.Session
	for _, identity := range identities {
		module := matched[identity]
		fetched, err := client.FetchSessions(module, opentimetables.DateRange{Start: start, End: end})
		if err != nil {
			log.Printf("Warning: skipping module %q: %v", module.Title, err)
			continue
		}
		log.Printf("Added %d scheduled sessions for %s", len(fetched), module.Title)
		sessions = append(sessions, fetched...)
	}

	if opts.CollapseWeekly {
		sessions = opentimetables.CollapseWeekly(sessions)
	}

	events := make([]ical.Event, 0, len(sessions))
	for _, s := range sessions {
		events = append(events, ical.Normalize(s))
	}

	calendar := &ical.Calendar{
		Name:   "Lectures for modules " + strings.Join(opts.Codes, ", "),
		Events: events,
	}

	if opts.Output == "view" {
		fmt.Fprintln(stdout, calendar.ViewerURL(cfg.ViewerURL))
		return nil
	}

	if err := calendar.WriteFile(opts.Output); err != nil {
		return fmt.Errorf("could not write calendar to %s: %w", opts.Output, err)
	}
	log.Printf("Saved %d events to %s", len(events), opts.Output)
	return nil
}
