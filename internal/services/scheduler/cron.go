package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// CronToHuman describes a five-field cron expression in plain words.
// Expressions it does not understand are returned unchanged.
func CronToHuman(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}
	minute, hour, dom, month, dow := fields[0], fields[1], fields[2], fields[3], fields[4]

	if month != "*" {
		return expr
	}

	if step, ok := strings.CutPrefix(minute, "*/"); ok && hour == "*" && dom == "*" && dow == "*" {
		if n, err := strconv.Atoi(step); err == nil && n > 0 {
			if n == 1 {
				return "Every minute"
			}
			return fmt.Sprintf("Every %d minutes", n)
		}
		return expr
	}

	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return expr
	}

	if hour == "*" && dom == "*" && dow == "*" {
		return fmt.Sprintf("Hourly at :%02d", m)
	}

	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return expr
	}
	at := clock(h, m)

	if dom != "*" {
		d, err := strconv.Atoi(dom)
		if err != nil || d < 1 || d > 31 || dow != "*" {
			return expr
		}
		return fmt.Sprintf("Monthly on day %d at %s", d, at)
	}

	switch dow {
	case "*":
		return "Daily at " + at
	case "1-5", "MON-FRI", "mon-fri":
		return "Weekdays at " + at
	case "0,6", "6,0", "SAT,SUN", "sat,sun":
		return "Weekends at " + at
	}

	days, ok := weekdays(dow)
	if !ok {
		return expr
	}
	return fmt.Sprintf("Every %s at %s", strings.Join(days, ", "), at)
}

func clock(h, m int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

// weekdays expands a day-of-week list with ranges, 7 meaning Sunday
func weekdays(field string) ([]string, bool) {
	var out []string
	for _, part := range strings.Split(field, ",") {
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, false
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(hi); err != nil {
				return nil, false
			}
		}
		if start < 0 || end > 7 || start > end {
			return nil, false
		}
		for d := start; d <= end; d++ {
			out = append(out, dayNames[d%7])
		}
	}
	return out, len(out) > 0
}
