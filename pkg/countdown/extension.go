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
	"errors"

	"github.com/arkide/stuffstore/pkg/extension"
)

const (
	ID = "countdowntimer"

	invalidDate = "Invalid date"
)

// Extension exposes a Calculator as host blocks.
type Extension struct {
	Calculator *Calculator
}

var _ extension.Extension = &Extension{}

func NewExtension(calc *Calculator) *Extension {
	if calc == nil {
		calc = New()
	}
	return &Extension{Calculator: calc}
}

func (e *Extension) Info() extension.Descriptor {
	block := func(opcode string, blockType extension.BlockType, text string, args ...string) extension.Block {
		return extension.Block{Opcode: opcode, BlockType: blockType, Text: text, Arguments: args}
	}
	return extension.Descriptor{
		ID:     ID,
		Name:   "Countdown Timer",
		Color1: "#4875fe",
		Color2: "#4875fe",
		Color3: "#4875fe",
		Blocks: []extension.Block{
			block("timeUntilDate", extension.BlockReporter, "time until [DATE] in [UNIT]", "DATE", "UNIT"),
			block("timeBetweenDates", extension.BlockReporter, "time from [START] to [END] in [UNIT]", "START", "END", "UNIT"),
			block("daysUntil", extension.BlockReporter, "days until [DATE]", "DATE"),
			block("hoursUntil", extension.BlockReporter, "hours until [DATE]", "DATE"),
			block("minutesUntil", extension.BlockReporter, "minutes until [DATE]", "DATE"),
			block("secondsUntil", extension.BlockReporter, "seconds until [DATE]", "DATE"),
			block("millisecondsUntil", extension.BlockReporter, "milliseconds until [DATE]", "DATE"),
			block("currentTimestamp", extension.BlockReporter, "current timestamp"),
			block("dateToTimestamp", extension.BlockReporter, "timestamp of [DATE]", "DATE"),
			block("isDatePast", extension.BlockBoolean, "is [DATE] in the past?", "DATE"),
			block("isDateFuture", extension.BlockBoolean, "is [DATE] in the future?", "DATE"),
		},
		Menus: map[string]extension.Menu{
			"timeUnits": {
				AcceptReporters: true,
				Items:           extension.Items(Milliseconds, Seconds, Minutes, Hours, Days, Weeks, Months, Years),
			},
		},
	}
}

func (e *Extension) Call(_ context.Context, opcode string, args extension.Args) (any, error) {
	calc := e.Calculator
	date := args.String("DATE")

	switch opcode {
	case "timeUntilDate":
		return reportable(calc.TimeUntil(date, args.String("UNIT")))
	case "timeBetweenDates":
		return reportable(calc.TimeBetween(args.String("START"), args.String("END"), args.String("UNIT")))
	case "daysUntil":
		return reportable(calc.TimeUntil(date, Days))
	case "hoursUntil":
		return reportable(calc.TimeUntil(date, Hours))
	case "minutesUntil":
		return reportable(calc.TimeUntil(date, Minutes))
	case "secondsUntil":
		return reportable(calc.TimeUntil(date, Seconds))
	case "millisecondsUntil":
		return reportable(calc.TimeUntil(date, Milliseconds))
	case "currentTimestamp":
		return calc.now().UnixMilli(), nil
	case "dateToTimestamp":
		return reportable(calc.Timestamp(date))
	case "isDatePast":
		return calc.IsPast(date), nil
	case "isDateFuture":
		return calc.IsFuture(date), nil
	}
	return nil, extension.UnknownOpcode(ID, opcode)
}

// reportable turns invalid dates into the reporter text shown to users.
func reportable(value int64, err error) (any, error) {
	if errors.Is(err, ErrInvalidDate) {
		return invalidDate, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}
