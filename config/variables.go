/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/dvb"
	"github.com/ausocean/tsmeta/container/mts/names"
)

// Config map Keys.
const (
	KeyLogging  = "logging"
	KeyLogPath  = "LogPath"
	KeyMargin   = "Margin"
	KeyPDS      = "PDS"
	KeySuppress = "Suppress"
	KeyTableID  = "TableID"
	KeyWorkers  = "Workers"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
)

// Default variable values.
const (
	defaultVerbosity = logging.Error
	defaultTableID   = desc.TIDNull
	defaultMargin    = 2
	maxMargin        = 32
)

// defaultWorkers is the number of concurrent decoders when unset.
var defaultWorkers = uint(runtime.NumCPU())

// TableNames names the tables a descriptor loop may be read from.
var TableNames = names.New(
	names.Entry{Name: "PAT", Value: int64(desc.TIDPAT)},
	names.Entry{Name: "CAT", Value: int64(desc.TIDCAT)},
	names.Entry{Name: "PMT", Value: int64(desc.TIDPMT)},
	names.Entry{Name: "NIT", Value: int64(desc.TIDNIT)},
	names.Entry{Name: "SDT", Value: int64(desc.TIDSDT)},
	names.Entry{Name: "EIT", Value: int64(desc.TIDEIT)},
	names.Entry{Name: "SCTE", Value: int64(desc.TIDSCTE)},
	names.Entry{Name: "none", Value: int64(desc.TIDNull)},
)

// Variables describes the variables that can be used for configuration.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
	},
	{
		Name: KeyMargin,
		Type: typeUint,
		Update: func(c *Config, v string) {
			c.Margin = parseUint(KeyMargin, v, c)
		},
		Validate: func(c *Config) {
			if c.Margin > maxMargin {
				c.LogInvalidField(KeyMargin, defaultMargin)
				c.Margin = defaultMargin
			}
		},
	},
	{
		Name: KeyPDS,
		Type: "enum:" + enumNames(dvb.PDSNames),
		Update: func(c *Config, v string) {
			c.PDS = uint32(parseNamed(KeyPDS, v, dvb.PDSNames, 32, c))
		},
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
			if l, ok := c.Logger.(*logging.JSONLogger); ok {
				l.SetSuppress(c.Suppress)
			}
		},
	},
	{
		Name: KeyTableID,
		Type: "enum:" + enumNames(TableNames),
		Update: func(c *Config, v string) {
			c.TableID = desc.TID(parseNamed(KeyTableID, v, TableNames, 8, c))
		},
		Validate: func(c *Config) {
			// The zero value is the PAT, which carries no descriptors.
			if c.TableID == desc.TIDPAT {
				c.LogInvalidField(KeyTableID, defaultTableID)
				c.TableID = defaultTableID
			}
		},
	},
	{
		Name:   KeyWorkers,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.Workers = parseUint(KeyWorkers, v, c) },
		Validate: func(c *Config) {
			c.Workers = lessThanOrEqual(KeyWorkers, c.Workers, 0, c, defaultWorkers)
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

// parseNamed parses a name from table or an integer of at most size bits.
func parseNamed(n, v string, table *names.Names, size int, c *Config) uint64 {
	if _v, ok := table.Value(v); ok {
		return uint64(_v)
	}
	_v, err := strconv.ParseUint(v, 0, size)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
		return 0
	}
	return _v
}

func enumNames(table *names.Names) string {
	var s []string
	for _, e := range table.Entries() {
		s = append(s, e.Name)
	}
	return strings.Join(s, ",")
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
