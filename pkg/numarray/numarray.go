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

// Package numarray computes statistics over JSON-encoded number arrays.
// Malformed input is treated as an empty array.
package numarray

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Parse decodes a JSON array and keeps the items that coerce to a number.
func Parse(input string) []float64 {
	var items []any
	if err := json.Unmarshal([]byte(input), &items); err != nil {
		return []float64{}
	}

	numbers := make([]float64, 0, len(items))
	for _, item := range items {
		if n, ok := toNumber(item); ok {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// toNumber follows the usual loose number coercion: null and blank strings
// are 0, booleans are 0 or 1, single-item arrays coerce their item.
func toNumber(item any) (float64, bool) {
	switch v := item.(type) {
	case nil:
		return 0, true
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return 0, true
		}
		n, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case []any:
		switch len(v) {
		case 0:
			return 0, true
		case 1:
			return toNumber(v[0])
		}
		return 0, false
	case map[string]any:
		return 0, false
	}
	n, err := cast.ToFloat64E(item)
	return n, err == nil
}

func Length(numbers []float64) int {
	return len(numbers)
}

func Lowest(numbers []float64) (float64, bool) {
	if len(numbers) == 0 {
		return 0, false
	}
	lowest := numbers[0]
	for _, n := range numbers[1:] {
		lowest = math.Min(lowest, n)
	}
	return lowest, true
}

func Highest(numbers []float64) (float64, bool) {
	if len(numbers) == 0 {
		return 0, false
	}
	highest := numbers[0]
	for _, n := range numbers[1:] {
		highest = math.Max(highest, n)
	}
	return highest, true
}

func Sum(numbers []float64) (float64, bool) {
	if len(numbers) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, n := range numbers {
		sum += n
	}
	return sum, true
}

func Average(numbers []float64) (float64, bool) {
	sum, ok := Sum(numbers)
	if !ok {
		return 0, false
	}
	return sum / float64(len(numbers)), true
}

// Median returns the middle value, or the mean of the two middle values for
// an even count.
func Median(numbers []float64) (float64, bool) {
	if len(numbers) == 0 {
		return 0, false
	}
	sorted := Sort(numbers, true)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

func Range(numbers []float64) (float64, bool) {
	lowest, ok := Lowest(numbers)
	if !ok {
		return 0, false
	}
	highest, _ := Highest(numbers)
	return highest - lowest, true
}

// Sort returns a sorted copy of numbers.
func Sort(numbers []float64, ascending bool) []float64 {
	sorted := append([]float64(nil), numbers...)
	if ascending {
		sort.Float64s(sorted)
	} else {
		sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	}
	return sorted
}

// Reverse returns a reversed copy of numbers.
func Reverse(numbers []float64) []float64 {
	reversed := make([]float64, len(numbers))
	for i, n := range numbers {
		reversed[len(numbers)-1-i] = n
	}
	return reversed
}

// Encode returns numbers as JSON text.
func Encode(numbers []float64) string {
	if len(numbers) == 0 {
		return "[]"
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// RemoveCharacters removes every occurrence of chars from text. chars is
// either a JSON array of strings, a comma-separated list, or a plain string
// whose every character is removed.
func RemoveCharacters(chars, text string) string {
	for _, remove := range splitChars(chars) {
		if remove == "" {
			continue
		}
		text = strings.ReplaceAll(text, remove, "")
	}
	return text
}

func splitChars(chars string) []string {
	trimmed := strings.TrimSpace(chars)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var items []any
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			result := make([]string, len(items))
			for i, item := range items {
				result[i] = cast.ToString(item)
			}
			return result
		}
		return strings.Split(chars, "")
	}
	if strings.Contains(chars, ",") {
		parts := strings.Split(chars, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return strings.Split(chars, "")
}
