package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// SecondsPerDay is the length of a normal broadcast day.
const SecondsPerDay = 86400.0

// Now is swappable in tests.
var Now = time.Now

// TimeInSeconds returns the current time of day as fractional seconds
// since local midnight.
func TimeInSeconds() float64 {
	t := Now()
	return float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second()) +
		float64(t.Nanosecond())/1e9
}

// CurrentDate returns the calendar date (YYYY-MM-DD) whose playlist should be
// playing right now, given the configured day start.
//
// A broadcast day does not match the calendar day: before day start we are
// still inside yesterday's program, and a playlist whose next item starts at
// or past 24:00:00 already belongs to tomorrow.
func CurrentDate(seek bool, start, nextStart float64) string {
	t := Now()

	if seek && start > TimeInSeconds() {
		return t.AddDate(0, 0, -1).Format(dateFormat)
	}
	if start == 0 && nextStart >= SecondsPerDay {
		return t.AddDate(0, 0, 1).Format(dateFormat)
	}
	return t.Format(dateFormat)
}

// TimeToSeconds parses "HH:MM:SS" (seconds may be fractional) into seconds
// since midnight.
func TimeToSeconds(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("invalid second in %q", s)
	}
	return float64(h)*3600 + float64(m)*60 + sec, nil
}

// SecondsToTime renders seconds since midnight as "HH:MM:SS".
// Values past 24h keep counting up (e.g. 25:30:00) so playlist overruns
// stay readable in logs.
func SecondsToTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	s := int(sec)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
