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

package v1alpha1

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownMode = errors.New("unknown storage mode")

// Mode selects the storage backend used by the facade.
type Mode string

const (
	ModeServer    Mode = "server"
	ModeLocal     Mode = "local"
	ModeIndexedDB Mode = "indexeddb"
)

var DefaultMode = ModeServer

// Modes lists all supported modes.
func Modes() []Mode {
	return []Mode{ModeServer, ModeLocal, ModeIndexedDB}
}

// ParseMode returns the Mode for a case-insensitive name.
func ParseMode(name string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(name)))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w %q", ErrUnknownMode, name)
	}
	return mode, nil
}

func (m Mode) IsValid() bool {
	switch m {
	case ModeServer, ModeLocal, ModeIndexedDB:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}
