package book

import (
	"strings"
	"time"

	"github.com/smileynet/addressbook/internal/contact"
)

// DayGroup lists the contacts celebrating on one weekday.
type DayGroup struct {
	Weekday string
	Names   []string
}

// Report is the result of UpcomingBirthdays. Groups appear in the order their
// weekday was first seen; names within a group follow record order.
type Report []DayGroup

// Empty reports whether no contact has a birthday in the window.
func (r Report) Empty() bool { return len(r) == 0 }

// String renders one "Weekday: name, name" line per group, joined by CRLF.
func (r Report) String() string {
	lines := make([]string, len(r))
	for i, g := range r {
		lines[i] = g.Weekday + ": " + strings.Join(g.Names, ", ")
	}
	return strings.TrimRight(strings.Join(lines, "\r\n"), " \t\r\n")
}

// UpcomingBirthdays groups by weekday the contacts whose next birthday falls
// within the window starting today. Records without a birthday are skipped.
func (b *Book) UpcomingBirthdays() Report {
	now := b.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var report Report
	index := make(map[string]int)
	for _, r := range b.Records() {
		bd, ok := r.Birthday()
		if !ok {
			b.logger.Debug("skipping record without birthday", "name", r.Name())
			continue
		}

		next := anniversary(bd, today.Year())
		if next.Before(today) {
			next = anniversary(bd, today.Year()+1)
		}
		delta := int(next.Sub(today).Hours() / 24)
		if delta < 0 || delta >= b.window {
			continue
		}

		day := next.Weekday()
		if b.shiftWeekends && (day == time.Saturday || day == time.Sunday) {
			day = time.Monday
		}
		key := day.String()

		i, seen := index[key]
		if !seen {
			i = len(report)
			index[key] = i
			report = append(report, DayGroup{Weekday: key})
		}
		report[i].Names = append(report[i].Names, r.Name())
	}
	return report
}

// anniversary returns the birthday's month and day in year. 29 February maps
// to 28 February in common years.
func anniversary(bd contact.Birthday, year int) time.Time {
	month, day := bd.Month(), bd.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
