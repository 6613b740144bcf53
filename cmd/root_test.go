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

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkide/stuffstore/pkg/apis/v1alpha1"
	"github.com/arkide/stuffstore/pkg/config"
	"github.com/arkide/stuffstore/pkg/extension"
	"github.com/arkide/stuffstore/pkg/kvserver"
	"github.com/arkide/stuffstore/pkg/provider"
)

func TestStoreCommands(t *testing.T) {
	setupEnv(t)

	for _, mode := range []string{"local", "indexeddb"} {
		t.Run(mode, func(t *testing.T) {
			run := func(args ...string) string {
				t.Helper()
				out, err := execute(t, append([]string{"--mode", mode}, args...)...)
				require.NoError(t, err)
				return out
			}

			assert.Equal(t, "\n", run("get", "score"))
			assert.Equal(t, "false\n", run("exists", "score"))
			assert.Equal(t, "{\"exists\":false}\n", run("info", "score"))

			run("set", "score", "10", "--locked")
			assert.Equal(t, "10\n", run("get", "score"))
			assert.Equal(t, "true\n", run("exists", "score"))
			assert.JSONEq(t, `{"exists":true,"value":10,"locked":true,"type":"number"}`, run("info", "score"))

			run("change", "score", "--", "-2.5")
			assert.Equal(t, "7.5\n", run("get", "score"))

			run("set", "name", "42", "--string")
			assert.Equal(t, "42\n", run("get", "name"))
			assert.JSONEq(t, `{"exists":true,"value":"42","locked":false,"type":"string"}`, run("info", "name"))

			run("delete", "score")
			assert.Equal(t, "false\n", run("exists", "score"))
		})
	}
}

func TestListCommands(t *testing.T) {
	setupEnv(t)

	run := func(args ...string) string {
		t.Helper()
		out, err := execute(t, append([]string{"--mode", "local"}, args...)...)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "Saved to local storage\n", run("list", "append", "myList", "x"))
	run("list", "append", "myList", "y")
	run("list", "append", "myList", "1")
	assert.Equal(t, "[\"x\",\"y\",1]\n", run("list", "json", "myList"))
	assert.Equal(t, "x\n", run("list", "item", "myList", "1"))
	assert.Equal(t, "\n", run("list", "item", "myList", "4"))
	assert.Equal(t, "3\n", run("list", "length", "myList"))
	assert.Equal(t, "true\n", run("list", "contains", "myList", "1"))
	assert.Equal(t, "false\n", run("list", "contains", "myList", `"1"`))

	run("list", "remove", "myList", "1")
	assert.Equal(t, "[\"y\",1]\n", run("list", "json", "myList"))

	run("list", "clear", "myList")
	assert.Equal(t, "[]\n", run("list", "json", "myList"))

	_, err := execute(t, "--mode", "local", "list", "item", "myList", "first")
	assert.Error(t, err)
}

func TestServerMode(t *testing.T) {
	dir := setupEnv(t)

	remote, err := provider.NewClient(context.Background(), &v1alpha1.StoreProvider{
		Local: &v1alpha1.StoreProviderLocal{DirPath: filepath.Join(dir, "remote")},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(kvserver.New(remote))
	t.Cleanup(srv.Close)
	t.Setenv(config.ServerURLEnv, srv.URL)

	out, err := execute(t, "set", "k", `"v"`)
	require.NoError(t, err)
	assert.Equal(t, "Value set successfully\n", out)

	out, err = execute(t, "get", "k")
	require.NoError(t, err)
	assert.Equal(t, "v\n", out)

	srv.Close()
	_, err = execute(t, "set", "k", "v")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	setupEnv(t)

	dir := t.TempDir()
	configFile := filepath.Join(dir, "storage.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
storage:
  mode: indexeddb
  indexeddb:
    path: `+filepath.Join(dir, "file.db")+`
`), 0o600))

	_, err := execute(t, "--config", configFile, "set", "k", "1")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "file.db"))

	_, err = execute(t, "--mode", "floppy", "get", "k")
	assert.ErrorIs(t, err, v1alpha1.ErrUnknownMode)
}

func TestExtensionCommands(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "blocks")
	require.NoError(t, err)
	var descriptors []extension.Descriptor
	require.NoError(t, json.Unmarshal([]byte(out), &descriptors))
	require.Len(t, descriptors, 3)
	assert.Equal(t, "arkideStorage", descriptors[0].ID)

	out, err = execute(t, "call", "numberjsonarraytools", "sortArray", "ARRAY=[3,1,2]", "ORDER=ascending")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]\n", out)

	_, err = execute(t, "--mode", "local", "call", "arkideStorage", "setValue", "KEY=k", "VALUE=hello")
	require.NoError(t, err)
	out, err = execute(t, "--mode", "local", "call", "arkideStorage", "getValue", "KEY=k")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = execute(t, "call", "countdowntimer", "daysUntil", "DATE=never")
	require.NoError(t, err)
	assert.Equal(t, "Invalid date\n", out)

	_, err = execute(t, "call", "numberjsonarraytools", "product")
	assert.ErrorIs(t, err, extension.ErrUnknownOpcode)

	_, err = execute(t, "blocks", "paint")
	assert.Error(t, err)
}

func TestToolCommands(t *testing.T) {
	out, err := execute(t, "array", "sumNumbers", "[3,1,4,1,5]")
	require.NoError(t, err)
	assert.Equal(t, "14\n", out)

	out, err = execute(t, "array", "sortArray", "[3,1,2]", "--order", "descending")
	require.NoError(t, err)
	assert.Equal(t, "[3,2,1]\n", out)

	out, err = execute(t, "array", "removeCharacters", "Hello World", "--order", "lo")
	require.NoError(t, err)
	assert.Equal(t, "He Wrd\n", out)

	out, err = execute(t, "countdown", "between", "2025-01-01", "2025-01-31", "--unit", "weeks")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = execute(t, "countdown", "until", "someday")
	require.NoError(t, err)
	assert.Equal(t, "Invalid date\n", out)
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.ModeEnv, "")
	t.Setenv(config.ServerURLEnv, "")
	t.Setenv(config.LocalDirEnv, filepath.Join(dir, "local"))
	t.Setenv(config.DBPathEnv, filepath.Join(dir, "stuff.db"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	rootCmd := NewRootCmd(context.Background())
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
