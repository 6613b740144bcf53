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

// Package extension defines the capability every host plugin module
// implements: describing its blocks and handling a single block call.
// Loading and rendering the blocks is up to the host.
package extension

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"
)

var ErrUnknownOpcode = errors.New("unknown opcode")

type BlockType string

const (
	BlockCommand  BlockType = "command"
	BlockReporter BlockType = "reporter"
	BlockBoolean  BlockType = "Boolean"
	BlockButton   BlockType = "button"
)

// Block describes a single callable block.
type Block struct {
	Opcode    string    `json:"opcode"`
	BlockType BlockType `json:"blockType"`
	Text      string    `json:"text"`
	// Arguments lists the argument names referenced by Text.
	Arguments []string `json:"arguments,omitempty"`
}

// MenuItem is a single menu choice. Text defaults to Value in the host.
type MenuItem struct {
	Text  string `json:"text,omitempty"`
	Value string `json:"value"`
}

// Menu is a dropdown referenced by block arguments.
type Menu struct {
	AcceptReporters bool       `json:"acceptReporters"`
	Items           []MenuItem `json:"items"`
}

// Items builds menu items whose text equals their value.
func Items(values ...string) []MenuItem {
	items := make([]MenuItem, len(values))
	for i, value := range values {
		items[i] = MenuItem{Value: value}
	}
	return items
}

// Descriptor describes an extension to the host.
type Descriptor struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Color1      string          `json:"color1,omitempty"`
	Color2      string          `json:"color2,omitempty"`
	Color3      string          `json:"color3,omitempty"`
	MenuIconURI string          `json:"menuIconURI,omitempty"`
	Blocks      []Block         `json:"blocks"`
	Menus       map[string]Menu `json:"menus,omitempty"`
}

// Block returns the block for opcode.
func (d Descriptor) Block(opcode string) (Block, bool) {
	for _, block := range d.Blocks {
		if block.Opcode == opcode {
			return block, true
		}
	}
	return Block{}, false
}

// Args holds block arguments keyed by argument name.
type Args map[string]any

func (a Args) String(name string) string {
	return cast.ToString(a[name])
}

// Number coerces the argument to a finite number. Anything else is 0.
func (a Args) Number(name string) float64 {
	value := a[name]
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	number := cast.ToFloat64(value)
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0
	}
	return number
}

func (a Args) Int(name string) int {
	return int(a.Number(name))
}

// ParseArgs parses NAME=value pairs.
func ParseArgs(pairs []string) (Args, error) {
	args := make(Args, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q, expected NAME=value", pair)
		}
		args[strings.ToUpper(name)] = value
	}
	return args, nil
}

// Extension is implemented by every plugin module.
type Extension interface {
	// Info describes the extension.
	Info() Descriptor

	// Call handles a single block call. Returns ErrUnknownOpcode for opcodes
	// not listed in Info.
	Call(ctx context.Context, opcode string, args Args) (any, error)
}

// UnknownOpcode returns the error for an opcode an extension does not handle.
func UnknownOpcode(id, opcode string) error {
	return fmt.Errorf("%w %q for extension %s", ErrUnknownOpcode, opcode, id)
}

// Registry collects extensions by ID. Safe for concurrent usage.
type Registry struct {
	mu         sync.RWMutex
	extensions map[string]Extension
}

func NewRegistry() *Registry {
	return &Registry{extensions: map[string]Extension{}}
}

// Register adds ext. Returns an error if an extension with the same ID exists.
func (r *Registry) Register(ext Extension) error {
	id := ext.Info().ID

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.extensions[id]; exists {
		return fmt.Errorf("extension %s already registered", id)
	}
	r.extensions[id] = ext
	return nil
}

// Get returns the extension registered under id.
func (r *Registry) Get(id string) (Extension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext, ok := r.extensions[id]
	return ext, ok
}

// Descriptors returns the descriptors of all registered extensions sorted by ID.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Descriptor, 0, len(r.extensions))
	for _, ext := range r.extensions {
		result = append(result, ext.Info())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Call dispatches a call to the extension registered under id.
func (r *Registry) Call(ctx context.Context, id, opcode string, args Args) (any, error) {
	ext, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("extension %s not registered", id)
	}
	return ext.Call(ctx, opcode, args)
}
