package structs

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int32
	}{
		{"00:00", 0},
		{"08:00", 480},
		{" 23:59 ", 1439},
		{"07:30", 450},
		{"00:30 (+1)", 30},
	}
	for _, c := range cases {
		got, err := ParseClock(c.in)
		if err != nil {
			t.Errorf("ParseClock(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClock(%q) = %v; want %v", c.in, got, c.want)
		}
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, in := range []string{"", "8", "24:00", "12:60", "-1:10", "ab:cd", "1:2:3"} {
		_, err := ParseClock(in)
		if !errors.Is(err, ErrInvalidClock) {
			t.Errorf("ParseClock(%q) error = %v; want ErrInvalidClock", in, err)
		}
	}
}

func TestArrivalAfter(t *testing.T) {
	if got := ArrivalAfter(480, 540); got != 540 {
		t.Errorf("ArrivalAfter(480, 540) = %v; want 540", got)
	}
	if got := ArrivalAfter(1380, 60); got != 1500 {
		t.Errorf("ArrivalAfter(1380, 60) = %v; want 1500", got)
	}
	if got := ArrivalAfter(600, 600); got != 2040 {
		t.Errorf("ArrivalAfter(600, 600) = %v; want 2040", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(450); got != "07:30" {
		t.Errorf("FormatClock(450) = %v", got)
	}
	if got := FormatClock(1500); got != "01:00 (+1)" {
		t.Errorf("FormatClock(1500) = %v", got)
	}
}

func TestTravelTime(t *testing.T) {
	if got := TravelTime(Rail{Distance: 30}, 60); got != 30 {
		t.Errorf("TravelTime = %v; want 30", got)
	}
}
