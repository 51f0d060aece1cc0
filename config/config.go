/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the descriptor
// tools.
package config

import (
	"github.com/ausocean/utils/logging"

	"github.com/ausocean/tsmeta/container/mts/desc"
)

// Config provides parameters used by the descriptor tools. A zero value
// Config is made usable by calling Validate.
type Config struct {
	Logger logging.Logger

	LogLevel int8
	LogPath  string // Path of the rotated log file. Empty means stderr only.
	Suppress bool   // Holds logger suppression state.

	// PDS is the private data specifier assumed at the start of a
	// descriptor loop.
	PDS uint32

	// TableID is the table containing descriptor loops read from files.
	// desc.TIDNull means the loop is not inside a table.
	TableID desc.TID

	Workers uint // Maximum number of files decoded concurrently.
	Margin  uint // Indentation of displayed descriptors in spaces.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
