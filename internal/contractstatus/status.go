// Package contractstatus buckets contract end dates into renewal urgency
// windows and orders records by that urgency.
package contractstatus

import (
	"slices"
	"strings"
	"time"
)

// Bucket is a contract-renewal urgency class
type Bucket string

const (
	BucketExpired Bucket = "expired"
	BucketDue     Bucket = "due"
	BucketCall2   Bucket = "call2"
	BucketCall1   Bucket = "call1"
	BucketFuture  Bucket = "future"
	BucketUnknown Bucket = "unknown"
)

// Window upper bounds, in days remaining (inclusive)
const (
	DueDays   = 14
	Call2Days = 30
	Call1Days = 45
)

// Buckets lists every bucket in priority order
var Buckets = []Bucket{BucketExpired, BucketDue, BucketCall2, BucketCall1, BucketFuture, BucketUnknown}

// Priority returns the sort priority of the bucket (1 = most urgent)
func (b Bucket) Priority() int {
	switch b {
	case BucketExpired:
		return 1
	case BucketDue:
		return 2
	case BucketCall2:
		return 3
	case BucketCall1:
		return 4
	default:
		return 5
	}
}

// NeedsAttention reports whether the bucket calls for a renewal action
func (b Bucket) NeedsAttention() bool {
	return b.Priority() <= 4
}

// Valid reports whether s names a known bucket
func Valid(s string) bool {
	for _, b := range Buckets {
		if string(b) == s {
			return true
		}
	}
	return false
}

// Status is the classification of one end date
type Status struct {
	Bucket        Bucket     `json:"bucket"`
	Priority      int        `json:"priority"`
	DaysRemaining *int       `json:"days_remaining"`
	EndDate       *time.Time `json:"end_date"`
}

// HasDate reports whether the status was computed from a usable date
func (s Status) HasDate() bool {
	return s.DaysRemaining != nil
}

var dateLayouts = []string{
	"2/1/2006",
	"2006-1-2",
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses DD/MM/YYYY, YYYY-MM-DD or an ISO timestamp into a
// calendar date at midnight in loc. It returns false for blank or
// unparseable input.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return Midnight(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its calendar day in t's location
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from today's date to end's date, each
// read in its own location; negative when end lies in the past.
// Daylight-saving shifts do not affect the count.
func DaysBetween(today, end time.Time) int {
	ty, tm, td := today.Date()
	ey, em, ed := end.Date()
	from := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	to := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// BucketFor maps days remaining onto a bucket
func BucketFor(days int) Bucket {
	switch {
	case days < 0:
		return BucketExpired
	case days <= DueDays:
		return BucketDue
	case days <= Call2Days:
		return BucketCall2
	case days <= Call1Days:
		return BucketCall1
	default:
		return BucketFuture
	}
}

// Classify computes the status of an end date relative to now
func Classify(end *time.Time, now time.Time) Status {
	if end == nil || end.IsZero() {
		return unknown()
	}
	// end is a calendar date (a DATE column comes back at UTC midnight), so
	// its own y/m/d is kept rather than converting it to now's zone.
	today := Midnight(now)
	ey, em, ed := end.Date()
	endDate := time.Date(ey, em, ed, 0, 0, 0, 0, now.Location())
	days := DaysBetween(today, endDate)
	b := BucketFor(days)
	return Status{
		Bucket:        b,
		Priority:      b.Priority(),
		DaysRemaining: &days,
		EndDate:       &endDate,
	}
}

// ClassifyString parses raw and classifies it; bad input yields BucketUnknown
func ClassifyString(raw string, now time.Time) Status {
	end, ok := ParseDate(raw, now.Location())
	if !ok {
		return unknown()
	}
	return Classify(&end, now)
}

func unknown() Status {
	return Status{Bucket: BucketUnknown, Priority: BucketUnknown.Priority()}
}

// Compare orders statuses by priority, then days remaining, with undated
// statuses after dated ones of the same priority.
func Compare(a, b Status) int {
	if a.Priority != b.Priority {
		return a.Priority - b.Priority
	}
	switch {
	case a.HasDate() && b.HasDate():
		return *a.DaysRemaining - *b.DaysRemaining
	case a.HasDate():
		return -1
	case b.HasDate():
		return 1
	}
	return 0
}

// Sort stably orders items by the status returned for each
func Sort[T any](items []T, status func(T) Status) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(status(a), status(b))
	})
}

// Summary counts records per bucket
type Summary struct {
	Expired int `json:"expired"`
	Due     int `json:"due"`
	Call2   int `json:"call2"`
	Call1   int `json:"call1"`
	Future  int `json:"future"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Add counts one status
func (s *Summary) Add(st Status) {
	s.Total++
	switch st.Bucket {
	case BucketExpired:
		s.Expired++
	case BucketDue:
		s.Due++
	case BucketCall2:
		s.Call2++
	case BucketCall1:
		s.Call1++
	case BucketFuture:
		s.Future++
	default:
		s.Unknown++
	}
}

// NeedsAttention is the number of records in an actionable bucket
func (s Summary) NeedsAttention() int {
	return s.Expired + s.Due + s.Call2 + s.Call1
}

// Summarize counts the statuses
func Summarize(statuses []Status) Summary {
	var s Summary
	for _, st := range statuses {
		s.Add(st)
	}
	return s
}
