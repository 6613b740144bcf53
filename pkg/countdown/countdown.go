// Copyright © 2024 Bank-Vaults Maintainers
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package countdown computes time remaining until and between dates.
package countdown

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Clock returns the current time.
type Clock func() time.Time

// Unit names accepted by ConvertDuration.
const (
	Milliseconds = "milliseconds"
	Seconds      = "seconds"
	Minutes      = "minutes"
	Hours        = "hours"
	Days         = "days"
	Weeks        = "weeks"
	Months       = "months"
	Years        = "years"
)

const (
	msPerSecond = 1000.0
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

var unitMillis = map[string]float64{
	Seconds: msPerSecond,
	Minutes: msPerMinute,
	Hours:   msPerHour,
	Days:    msPerDay,
	Weeks:   7 * msPerDay,
	Months:  30.44 * msPerDay,
	Years:   365.25 * msPerDay,
}

const dateOnly = "2006-01-02"

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate parses a date in loc. A date without a time of day means the end
// of that day (23:59:59.999).
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.ParseInLocation(dateOnly, value, loc); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ConvertDuration converts a millisecond difference into whole units,
// flooring the magnitude and keeping the sign. Milliseconds and unknown units
// return ms unchanged.
func ConvertDuration(ms int64, unit string) int64 {
	per, ok := unitMillis[strings.ToLower(unit)]
	if !ok {
		return ms
	}
	sign := int64(1)
	if ms < 0 {
		sign = -1
	}
	return sign * int64(math.Floor(math.Abs(float64(ms))/per))
}

// Calculator evaluates dates against a clock.
type Calculator struct {
	Now Clock
	Loc *time.Location
}

// New returns a Calculator using the system clock and local time.
func New() *Calculator {
	return &Calculator{Now: time.Now, Loc: time.Local}
}

func (c *Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Calculator) Parse(value string) (time.Time, error) {
	return ParseDate(value, c.Loc)
}

// TimeUntil returns the time from now until date in unit.
func (c *Calculator) TimeUntil(date, unit string) (int64, error) {
	target, err := c.Parse(date)
	if err != nil {
		return 0, err
	}
	return ConvertDuration(target.Sub(c.now()).Milliseconds(), unit), nil
}

// TimeBetween returns the time from start until end in unit.
func (c *Calculator) TimeBetween(start, end, unit string) (int64, error) {
	from, err := c.Parse(start)
	if err != nil {
		return 0, err
	}
	to, err := c.Parse(end)
	if err != nil {
		return 0, err
	}
	return ConvertDuration(to.Sub(from).Milliseconds(), unit), nil
}

// Timestamp returns date as Unix milliseconds.
func (c *Calculator) Timestamp(date string) (int64, error) {
	t, err := c.Parse(date)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// IsPast is false for invalid dates.
func (c *Calculator) IsPast(date string) bool {
	t, err := c.Parse(date)
	return err == nil && t.Before(c.now())
}

// IsFuture is false for invalid dates.
func (c *Calculator) IsFuture(date string) bool {
	t, err := c.Parse(date)
	return err == nil && t.After(c.now())
}
