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

package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkide/stuffstore/pkg/extension"
)

func fixedCalculator(now time.Time) *Calculator {
	return &Calculator{Now: func() time.Time { return now }, Loc: time.UTC}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-01-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC), got)

	got, err = ParseDate(" 2025-01-01T10:30 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-01-01T10:30:00+02:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC), got.UTC())

	for _, invalid := range []string{"", "tomorrow", "2025-13-01", "01/02/2025"} {
		_, err := ParseDate(invalid, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidDate, invalid)
	}
}

func TestConvertDuration(t *testing.T) {
	day := int64(24 * time.Hour / time.Millisecond)

	tests := []struct {
		ms   int64
		unit string
		want int64
	}{
		{ms: 1999, unit: Seconds, want: 1},
		{ms: -1999, unit: Seconds, want: -1},
		{ms: 90 * 60 * 1000, unit: "HOURS", want: 1},
		{ms: 13 * day, unit: Weeks, want: 1},
		{ms: 61 * day, unit: Months, want: 2},
		{ms: 730 * day, unit: Years, want: 1},
		{ms: 1234, unit: Milliseconds, want: 1234},
		{ms: 1234, unit: "fortnights", want: 1234},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertDuration(tt.ms, tt.unit), "%d %s", tt.ms, tt.unit)
	}
}

func TestCalculator(t *testing.T) {
	calc := fixedCalculator(time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC))

	days, err := calc.TimeUntil("2025-01-01", Days)
	require.NoError(t, err)
	assert.Equal(t, int64(2), days)

	hours, err := calc.TimeUntil("2025-01-01", Hours)
	require.NoError(t, err)
	assert.Equal(t, int64(59), hours)

	past, err := calc.TimeUntil("2024-12-01", Days)
	require.NoError(t, err)
	assert.Equal(t, int64(-28), past)

	between, err := calc.TimeBetween("2025-01-01", "2025-12-31", Days)
	require.NoError(t, err)
	assert.Equal(t, int64(364), between)

	_, err = calc.TimeBetween("2025-01-01", "nope", Days)
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.True(t, calc.IsFuture("2025-01-01"))
	assert.False(t, calc.IsPast("2025-01-01"))
	assert.True(t, calc.IsPast("2024-12-29"))
	assert.False(t, calc.IsPast("nope"))
	assert.False(t, calc.IsFuture("nope"))

	// The end of the current day is still in the future
	assert.True(t, calc.IsFuture("2024-12-30"))
}

func TestExtension(t *testing.T) {
	now := time.Date(2024, 12, 30, 12, 0, 0, 0, time.UTC)
	ext := NewExtension(fixedCalculator(now))

	call := func(opcode string, args extension.Args) any {
		got, err := ext.Call(context.Background(), opcode, args)
		require.NoError(t, err)
		return got
	}

	assert.Equal(t, int64(2), call("daysUntil", extension.Args{"DATE": "2025-01-01"}))
	assert.Equal(t, int64(2), call("timeUntilDate", extension.Args{"DATE": "2025-01-01", "UNIT": "days"}))
	assert.Equal(t, now.UnixMilli(), call("currentTimestamp", nil))
	assert.Equal(t, "Invalid date", call("daysUntil", extension.Args{"DATE": "whenever"}))
	assert.Equal(t, "Invalid date", call("dateToTimestamp", extension.Args{"DATE": "whenever"}))
	assert.Equal(t, "Invalid date", call("timeBetweenDates", extension.Args{"START": "2025-01-01", "END": "x", "UNIT": "days"}))
	assert.Equal(t, false, call("isDatePast", extension.Args{"DATE": "whenever"}))
	assert.Equal(t, true, call("isDatePast", extension.Args{"DATE": "2020-01-01"}))

	_, ok := ext.Info().Block("isDateFuture")
	assert.True(t, ok)

	_, err := ext.Call(context.Background(), "formatCountdown", nil)
	assert.ErrorIs(t, err, extension.ErrUnknownOpcode)
}
