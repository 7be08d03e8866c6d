package structs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const DAY int32 = 1440

var ErrInvalidClock = errors.New("invalid clock time")

// Parses "HH:MM" into minutes of the day. A trailing day marker as
// written by FormatClock ("08:15 (+1)") is accepted and ignored.
func ParseClock(s string) (int32, error) {
	str := strings.TrimSpace(s)
	if idx := strings.Index(str, "(+"); idx >= 0 {
		str = strings.TrimSpace(str[:idx])
	}
	parts := strings.Split(str, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return int32(hours*60 + minutes), nil
}

// Arrival minute relative to departure, shifted to the next day if the
// raw arrival is not after the departure.
func ArrivalAfter(departure, arrival int32) int32 {
	if arrival <= departure {
		return arrival + DAY
	}
	return arrival
}

func FormatClock(minute int32) string {
	days := minute / DAY
	day_minutes := minute % DAY
	hours := day_minutes / 60
	mins := day_minutes % 60
	if days > 0 {
		return fmt.Sprintf("%02d:%02d (+%d)", hours, mins, days)
	}
	return fmt.Sprintf("%02d:%02d", hours, mins)
}
