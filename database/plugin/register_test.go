// Copyright 2026 Blink Labs Software
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

package plugin_test

import (
	"testing"

	"github.com/blinklabs-io/quorum/database/plugin"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock plugin implementation for testing
type mockPlugin struct{}

func (m *mockPlugin) Start() error { return nil }
func (m *mockPlugin) Stop() error  { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	testEntry := plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	}

	plugin.Register(testEntry)

	// Check that GetPlugin finds it
	p := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	require.NotNil(t, p, "plugin not found")

	// Check that GetPlugins includes it
	found := false
	for _, pl := range plugin.GetPlugins(plugin.PluginTypeBlob) {
		if pl.Name == pluginName && pl.Type == plugin.PluginTypeBlob {
			found = true
			break
		}
	}
	assert.True(t, found, "plugin not in GetPlugins list")
	for _, pl := range plugin.GetPlugins(plugin.PluginTypeMetadata) {
		assert.NotEqual(t, pluginName, pl.Name)
	}
}

func TestGetPlugin(t *testing.T) {
	pluginName := "test-get-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	p := plugin.GetPlugin(plugin.PluginTypeMetadata, pluginName)
	require.NotNil(t, p)
	assert.IsType(t, &mockPlugin{}, p)

	assert.Nil(
		t,
		plugin.GetPlugin(plugin.PluginTypeMetadata, "non-existent-"+t.Name()),
	)
}

func TestPluginTypeName(t *testing.T) {
	assert.Equal(t, "blob", plugin.PluginTypeName(plugin.PluginTypeBlob))
	assert.Equal(t, "metadata", plugin.PluginTypeName(plugin.PluginTypeMetadata))
	assert.Empty(t, plugin.PluginTypeName(plugin.PluginType(99)))
}

type optionDests struct {
	host    string
	port    uint64
	verbose bool
	workers int
}

func registerOptionPlugin(t *testing.T, name string) *optionDests {
	t.Helper()
	dests := &optionDests{}
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               name,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
		Options: []plugin.PluginOption{
			{
				Name:         "host",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "localhost",
				Dest:         &(dests.host),
			},
			{
				Name:         "port",
				Type:         plugin.PluginOptionTypeUint,
				DefaultValue: uint64(5432),
				Dest:         &(dests.port),
			},
			{
				Name:         "verbose",
				Type:         plugin.PluginOptionTypeBool,
				DefaultValue: false,
				Dest:         &(dests.verbose),
			},
			{
				Name:         "workers",
				Type:         plugin.PluginOptionTypeInt,
				DefaultValue: 2,
				Dest:         &(dests.workers),
			},
		},
	})
	return dests
}

func TestPopulateCmdlineOptions(t *testing.T) {
	dests := registerOptionPlugin(t, "flagtest")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, plugin.PopulateCmdlineOptions(fs))
	require.NoError(t, fs.Parse([]string{
		"--metadata-flagtest-host", "db.example",
		"--metadata-flagtest-port", "6543",
		"--metadata-flagtest-verbose",
	}))
	assert.Equal(t, "db.example", dests.host)
	assert.Equal(t, uint64(6543), dests.port)
	assert.True(t, dests.verbose)
	assert.Equal(t, 2, dests.workers)
}

func TestProcessEnvVars(t *testing.T) {
	dests := registerOptionPlugin(t, "envtest")
	t.Setenv("QUORUM_DATABASE_METADATA_ENVTEST_HOST", "env-host")
	t.Setenv("QUORUM_DATABASE_METADATA_ENVTEST_PORT", "7000")
	t.Setenv("QUORUM_DATABASE_METADATA_ENVTEST_WORKERS", "9")
	require.NoError(t, plugin.ProcessEnvVars())
	assert.Equal(t, "env-host", dests.host)
	assert.Equal(t, uint64(7000), dests.port)
	assert.Equal(t, 9, dests.workers)

	t.Setenv("QUORUM_DATABASE_METADATA_ENVTEST_VERBOSE", "not-a-bool")
	assert.Error(t, plugin.ProcessEnvVars())
}

func TestProcessConfig(t *testing.T) {
	dests := registerOptionPlugin(t, "cfgtest")
	err := plugin.ProcessConfig(map[string]map[string]map[string]any{
		"metadata": {
			"cfgtest": {
				"host":    "cfg-host",
				"port":    3306,
				"verbose": "true",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cfg-host", dests.host)
	assert.Equal(t, uint64(3306), dests.port)
	assert.True(t, dests.verbose)

	err = plugin.ProcessConfig(map[string]map[string]map[string]any{
		"bogus": {},
	})
	assert.Error(t, err)
}
