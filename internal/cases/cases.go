// Package cases loads daily case reports and groups them into a timeline of
// report days.
package cases

import (
	"sort"
	"strings"
)

const (
	// Cutoff is the first report day that is dropped.
	Cutoff = "2021/01/01"
	// FirstCaseDay is the first day whose counts are trusted; earlier
	// reports are kept with zero cases.
	FirstCaseDay = "2020/01/28"
)

// Report is one row of the case data.
type Report struct {
	// Reported is the raw report timestamp, used for ordering.
	Reported  string `json:"reported"`
	CountyKey int    `json:"countyKey"`
	Cases     int    `json:"cases"`
}

// Day returns the YYYY/MM/DD report day.
func (r Report) Day() string {
	d := r.Reported
	if len(d) > 10 {
		d = d[:10]
	}
	return strings.ReplaceAll(d, "-", "/")
}

// sortKey orders reports by normalised day, then by the rest of the timestamp.
func (r Report) sortKey() string {
	if len(r.Reported) > 10 {
		return r.Day() + r.Reported[10:]
	}
	return r.Day()
}

type Day struct {
	Date    string   `json:"date"`
	Reports []Report `json:"reports"`
}

// Total sums the case counts of the day.
func (d Day) Total() int {
	n := 0
	for _, r := range d.Reports {
		n += r.Cases
	}
	return n
}

// Timeline is the list of report days in ascending order.
type Timeline struct {
	Days []Day `json:"days"`
}

func (t Timeline) Total() int {
	n := 0
	for _, d := range t.Days {
		n += d.Total()
	}
	return n
}

// Group sorts reports by timestamp, applies the data fixes and groups them by
// report day. The input slice is not modified.
func Group(reports []Report) Timeline {
	sorted := make([]Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].sortKey() < sorted[j].sortKey() })

	var t Timeline
	for _, r := range sorted {
		day := r.Day()
		if day >= Cutoff {
			continue
		}
		if day < FirstCaseDay {
			r.Cases = 0
		}
		if n := len(t.Days); n == 0 || t.Days[n-1].Date != day {
			t.Days = append(t.Days, Day{Date: day})
		}
		last := &t.Days[len(t.Days)-1]
		last.Reports = append(last.Reports, r)
	}
	return t
}

// FormatDate turns YYYY/MM/DD into DD.MM.YYYY. Shorter input is returned
// unchanged.
func FormatDate(day string) string {
	if len(day) < 10 {
		return day
	}
	return day[8:10] + "." + day[5:7] + "." + day[0:4]
}
