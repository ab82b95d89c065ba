package trip

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event hours used when exporting. Trips and items only carry dates.
const (
	tripStartHour = 9
	tripEndHour   = 20
	itemStartHour = 10
	itemDuration  = time.Hour
)

// BuildICS exports a trip as an iCalendar document: one event spanning the
// whole trip plus one event per dated item. stamp is written as DTSTAMP.
func BuildICS(t *Trip, items []Item, shareURL string, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tripshare//trip export//EN")

	whole := cal.AddEvent(t.Token + "@tripshare")
	whole.SetDtStampTime(stamp)
	whole.SetSummary(fmt.Sprintf("%s - %s", t.Title, t.Destination))
	whole.SetStartAt(atHour(t.StartDate, tripStartHour))
	whole.SetEndAt(atHour(t.EndDate, tripEndHour))
	whole.SetDescription("Trip planned with tripshare")
	if shareURL != "" {
		whole.SetURL(shareURL)
	}

	for _, it := range items {
		if it.Date == nil {
			continue
		}

		e := cal.AddEvent(fmt.Sprintf("%s-item-%d@tripshare", t.Token, it.ID))
		e.SetDtStampTime(stamp)
		e.SetSummary(fmt.Sprintf("[%s] %s", it.Category.Label(), it.Title))

		start := atHour(*it.Date, itemStartHour)
		e.SetStartAt(start)
		e.SetEndAt(start.Add(itemDuration))

		var desc []string
		if it.URL != "" {
			desc = append(desc, it.URL)
		}
		if it.Notes != "" {
			desc = append(desc, it.Notes)
		}
		if len(desc) > 0 {
			e.SetDescription(strings.Join(desc, "\n\n"))
		}
	}

	return cal.Serialize()
}

func atHour(d time.Time, hour int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}
