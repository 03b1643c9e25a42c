package attendance

import (
	"strconv"
	"time"
)

func formatClock(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("15:04")
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

func positional(prefix string, index int) string {
	return prefix + " $" + strconv.Itoa(index)
}
