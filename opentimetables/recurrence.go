package opentimetables

import (
	"log"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// minWeeklyRun is the shortest run of weekly repeats worth collapsing into
// a recurrence rule.
const minWeeklyRun = 3

type weeklyKey struct {
	moduleIdentity string
	summary        string
	location       string
	weekday        time.Weekday
	clock          string
	duration       time.Duration
}

// CollapseWeekly merges runs of sessions that repeat at the same weekday,
// time and location in consecutive weeks into a single session carrying a
// FREQ=WEEKLY recurrence rule. Sessions that do not form a run of at least
// minWeeklyRun are returned unchanged.
func CollapseWeekly(sessions []Session) []Session {
	groups := make(map[weeklyKey][]Session)
	for _, s := range sessions {
		key := weeklyKey{
			moduleIdentity: s.ModuleIdentity,
			summary:        s.Summary,
			location:       s.Location,
			weekday:        s.Start.Weekday(),
			clock:          s.Start.Format("15:04"),
			duration:       s.End.Sub(s.Start),
		}
		groups[key] = append(groups[key], s)
	}

	var collapsed []Session
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Start.Before(group[j].Start) })

		for start := 0; start < len(group); {
			end := start + 1
			// Exact 168h spacing: a local-clock weekly run breaks at a DST
			// change, since FREQ=WEEKLY on a UTC DTSTART would shift those
			// occurrences by an hour.
			for end < len(group) && group[end].Start.Sub(group[end-1].Start) == 7*24*time.Hour {
				end++
			}

			run := group[start:end]
			if len(run) < minWeeklyRun {
				collapsed = append(collapsed, run...)
			} else {
				first := run[0]
				rule, err := weeklyRule(run[len(run)-1].Start)
				if err != nil {
					log.Printf("Warning: could not build recurrence rule for %q: %v", first.Summary, err)
					collapsed = append(collapsed, run...)
				} else {
					first.Recurrence = rule
					collapsed = append(collapsed, first)
				}
			}
			start = end
		}
	}

	sort.Slice(collapsed, func(i, j int) bool { return collapsed[i].Start.Before(collapsed[j].Start) })
	return collapsed
}

// weeklyRule builds the RRULE value for a weekly repeat ending at until.
func weeklyRule(until time.Time) (string, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:  rrule.WEEKLY,
		Until: until.UTC(),
	})
	if err != nil {
		return "", err
	}
	return rule.String(), nil
}
