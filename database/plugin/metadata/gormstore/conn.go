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

package gormstore

import (
	"strings"
	"time"

	"github.com/blinklabs-io/quorum/database/plugin"
	"gorm.io/gorm"
)

// Conn holds the connection settings of a networked metadata store
type Conn struct {
	Host     string
	User     string
	Password string
	Database string
	SSLMode  string
	TimeZone string
	// DSN takes precedence over the individual settings when set
	DSN  string
	Port uint64
}

// WithDefaults returns c with every unset field taken from defaults
func (c Conn) WithDefaults(defaults Conn) Conn {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	c.Host = pick(c.Host, defaults.Host)
	c.User = pick(c.User, defaults.User)
	c.Database = pick(c.Database, defaults.Database)
	c.SSLMode = pick(c.SSLMode, defaults.SSLMode)
	c.TimeZone = pick(c.TimeZone, defaults.TimeZone)
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	c.DSN = strings.TrimSpace(c.DSN)
	return c
}

// PluginOptions describes the connection settings as plugin options for the
// named engine. Values set through flags, env vars or config land in c.
func (c *Conn) PluginOptions(engine string, defaults Conn) []plugin.PluginOption {
	str := func(name, desc string, def string, dest *string) plugin.PluginOption {
		return plugin.PluginOption{
			Name:         name,
			Type:         plugin.PluginOptionTypeString,
			Description:  engine + " " + desc,
			DefaultValue: def,
			Dest:         dest,
		}
	}
	return []plugin.PluginOption{
		str("host", "host", defaults.Host, &c.Host),
		{
			Name:         "port",
			Type:         plugin.PluginOptionTypeUint,
			Description:  engine + " port",
			DefaultValue: defaults.Port,
			Dest:         &c.Port,
		},
		str("user", "user", defaults.User, &c.User),
		str("password", "password (required)", "", &c.Password),
		str("database", "database name", defaults.Database, &c.Database),
		str("ssl-mode", "TLS mode", defaults.SSLMode, &c.SSLMode),
		str("timezone", "session time zone", defaults.TimeZone, &c.TimeZone),
		str("dsn", "DSN (overrides the other options when set)", "", &c.DSN),
	}
}

// ConfigurePool applies the connection pool limits used by the networked
// stores
func ConfigurePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}
