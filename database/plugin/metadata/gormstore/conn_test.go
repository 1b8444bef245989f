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
package gormstore_test

import (
	"testing"

	"github.com/blinklabs-io/quorum/database/plugin"
	"github.com/blinklabs-io/quorum/database/plugin/metadata/gormstore"
	"github.com/stretchr/testify/assert"
)

var testDefaults = gormstore.Conn{
	Host:     "localhost",
	Port:     5432,
	User:     "postgres",
	Database: "postgres",
	SSLMode:  "disable",
	TimeZone: "UTC",
}

func TestConnWithDefaults(t *testing.T) {
	conn := gormstore.Conn{
		User:     "gov",
		Password: "secret",
		DSN:      "  host=db  ",
	}.WithDefaults(testDefaults)
	assert.Equal(t, "localhost", conn.Host)
	assert.Equal(t, uint64(5432), conn.Port)
	assert.Equal(t, "gov", conn.User)
	assert.Equal(t, "secret", conn.Password)
	assert.Equal(t, "postgres", conn.Database)
	assert.Equal(t, "host=db", conn.DSN)
}

func TestConnPluginOptions(t *testing.T) {
	var conn gormstore.Conn
	opts := conn.PluginOptions("Postgres", testDefaults)
	byName := make(map[string]plugin.PluginOption, len(opts))
	for _, opt := range opts {
		byName[opt.Name] = opt
	}
	assert.Len(t, byName, 8)
	assert.Equal(t, uint64(5432), byName["port"].DefaultValue)
	assert.Equal(t, plugin.PluginOptionTypeUint, byName["port"].Type)
	assert.Equal(t, "Postgres host", byName["host"].Description)
	assert.Empty(t, byName["password"].DefaultValue)

	// Destinations point into conn
	*(byName["host"].Dest.(*string)) = "db.local"
	*(byName["port"].Dest.(*uint64)) = 6543
	assert.Equal(t, "db.local", conn.Host)
	assert.Equal(t, uint64(6543), conn.Port)
}
