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

package numarray

import (
	"context"

	"github.com/arkide/stuffstore/pkg/extension"
)

// Extension exposes the array tools as host blocks. Empty arrays report an
// empty string for scalar results and "[]" for array results.
type Extension struct{}

var _ extension.Extension = &Extension{}

const ID = "numberjsonarraytools"

func (e *Extension) Info() extension.Descriptor {
	reporter := func(opcode, text string, args ...string) extension.Block {
		return extension.Block{Opcode: opcode, BlockType: extension.BlockReporter, Text: text, Arguments: args}
	}
	return extension.Descriptor{
		ID:     ID,
		Name:   "Number JSON Array Tools",
		Color1: "#E63946",
		Color2: "#D62828",
		Color3: "#C1121F",
		Blocks: []extension.Block{
			reporter("lowestNumber", "lowest number in [ARRAY]", "ARRAY"),
			reporter("highestNumber", "highest number in [ARRAY]", "ARRAY"),
			reporter("averageNumber", "average of [ARRAY]", "ARRAY"),
			reporter("sumNumbers", "sum of [ARRAY]", "ARRAY"),
			reporter("medianNumber", "median of [ARRAY]", "ARRAY"),
			reporter("arrayLength", "length of [ARRAY]", "ARRAY"),
			reporter("rangeNumber", "range of [ARRAY]", "ARRAY"),
			reporter("sortArray", "sort [ARRAY] [ORDER]", "ARRAY", "ORDER"),
			reporter("reverseArray", "reverse [ARRAY]", "ARRAY"),
			reporter("removeCharacters", "remove [CHARS] from [TEXT]", "CHARS", "TEXT"),
		},
		Menus: map[string]extension.Menu{
			"sortOrder": {AcceptReporters: true, Items: extension.Items("ascending", "descending")},
		},
	}
}

func (e *Extension) Call(_ context.Context, opcode string, args extension.Args) (any, error) {
	numbers := Parse(args.String("ARRAY"))

	switch opcode {
	case "lowestNumber":
		return scalar(Lowest(numbers)), nil
	case "highestNumber":
		return scalar(Highest(numbers)), nil
	case "averageNumber":
		return scalar(Average(numbers)), nil
	case "sumNumbers":
		return scalar(Sum(numbers)), nil
	case "medianNumber":
		return scalar(Median(numbers)), nil
	case "rangeNumber":
		return scalar(Range(numbers)), nil
	case "arrayLength":
		return Length(numbers), nil
	case "sortArray":
		// Anything but "ascending" sorts descending
		return Encode(Sort(numbers, args.String("ORDER") == "ascending")), nil
	case "reverseArray":
		return Encode(Reverse(numbers)), nil
	case "removeCharacters":
		return RemoveCharacters(args.String("CHARS"), args.String("TEXT")), nil
	}
	return nil, extension.UnknownOpcode(ID, opcode)
}

func scalar(value float64, ok bool) any {
	if !ok {
		return ""
	}
	return value
}
