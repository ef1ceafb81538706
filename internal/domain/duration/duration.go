// Package duration converts consultation durations between the forms found in
// the input sheet and whole seconds.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sohrab4u/consultation/internal/domain/model"
)

// Unknown is shown when a record has no duration at all.
const Unknown = "Unknown"

const (
	secondsPerHour   = 3600
	secondsPerMinute = 60

	// maxHours keeps the total in range of int.
	maxHours = (math.MaxInt - (secondsPerHour - 1)) / secondsPerHour
)

// Parse converts a duration value to total seconds.
//
// Clock values (model.ClockTime, time.Time) use their components directly.
// Text is split on ':' and read as MM:SS or HH:MM:SS. Hours are unbounded,
// minutes and seconds must be in [0, 60).
func Parse(value any) (int, error) {
	if model.IsNull(value) {
		return 0, &ParseError{Kind: ErrEmpty}
	}

	switch v := value.(type) {
	case model.ClockTime:
		return fromParts(v.Hour, v.Minute, v.Second, v.String())
	case time.Time:
		return fromParts(v.Hour(), v.Minute(), v.Second(), v.Format(time.TimeOnly))
	}

	text := model.ToText(value)
	if text == "" {
		return 0, &ParseError{Kind: ErrEmpty}
	}

	parts := strings.Split(text, ":")
	var h, m, s int
	var err error
	switch len(parts) {
	case 2:
		m, s, err = atoi2(parts[0], parts[1])
	case 3:
		h, err = atoi(parts[0])
		if err == nil {
			m, s, err = atoi2(parts[1], parts[2])
		}
	default:
		return 0, &ParseError{Kind: ErrFormat, Input: text}
	}
	if err != nil {
		return 0, &ParseError{Kind: ErrFormat, Input: text}
	}
	return fromParts(h, m, s, text)
}

// Format renders seconds as MM:SS, folding hours into minutes.
// Negative input is treated as zero.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}

// TimeTaken returns the duration as it should be displayed on a report row:
// the value as typed, or Unknown when missing. It does not validate.
func TimeTaken(value any) string {
	if model.IsNull(value) {
		return Unknown
	}
	text := model.ToText(value)
	if text == "" {
		return Unknown
	}
	return text
}

func fromParts(h, m, s int, input string) (int, error) {
	if h < 0 || h > maxHours || m < 0 || s < 0 || m >= secondsPerMinute || s >= secondsPerMinute {
		return 0, &ParseError{Kind: ErrRange, Input: input}
	}
	return h*secondsPerHour + m*secondsPerMinute + s, nil
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func atoi2(a, b string) (int, int, error) {
	x, err := atoi(a)
	if err != nil {
		return 0, 0, err
	}
	y, err := atoi(b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
