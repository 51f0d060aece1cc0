/*
NAME
  root.go

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cmd provides the tsdesc commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/tsmeta/config"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/registry"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 50 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
)

// Flags which map to config variables.
var configFlags = map[string]string{
	"log-level": config.KeyLogging,
	"log-path":  config.KeyLogPath,
	"suppress":  config.KeySuppress,
	"pds":       config.KeyPDS,
	"table":     config.KeyTableID,
	"workers":   config.KeyWorkers,
	"margin":    config.KeyMargin,
}

// app holds the state shared by the commands.
type app struct {
	cfg config.Config
	log logging.Logger
	reg *desc.Registry
}

type appKey struct{}

// fromContext returns the app stored by the root command.
func fromContext(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey{}).(*app)
	if !ok {
		return nil, fmt.Errorf("application state not found in context")
	}
	return a, nil
}

// newList returns an empty descriptor list using the configured table and
// private data specifier.
func (a *app) newList(tid desc.TID) *desc.List {
	l := desc.NewList(a.reg, tid, a.log)
	l.SetDefaultPDS(a.cfg.PDS)
	return l
}

// margin returns the configured display indentation.
func (a *app) margin() string {
	return fmt.Sprintf("%*s", int(a.cfg.Margin), "")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "tsdesc",
	Short:   "tsdesc - MPEG-TS descriptor tool",
	Version: version,
	Long: `tsdesc displays binary MPEG-TS descriptor loops, converts them to XML
and compiles XML descriptions back to binary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
}

// newApp builds the configuration from the config file and flags, then the
// logger and registry.
func newApp(cmd *cobra.Command) (*app, error) {
	a := &app{}
	a.cfg.Logger = logging.New(logging.Warning, os.Stderr, false)

	vars := map[string]string{config.KeyMargin: "2"}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		for k, val := range v {
			vars[k] = val
		}
	}
	for flag, key := range configFlags {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			vars[key] = f.Value.String()
		}
	}
	a.cfg.Update(vars)
	a.cfg.Validate()

	var w io.Writer = os.Stderr
	if a.cfg.LogPath != "" {
		// Create lumberjack logger to handle logging to file.
		fileLog := &lumberjack.Logger{
			Filename:   a.cfg.LogPath,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	a.log = logging.New(a.cfg.LogLevel, w, a.cfg.Suppress)
	a.cfg.Logger = a.log
	a.log.Debug("starting tsdesc", "version", version, "command", cmd.Name())

	reg, err := registry.Build(a.log)
	if err != nil {
		return nil, fmt.Errorf("could not build descriptor registry: %w", err)
	}
	a.reg = reg
	return a, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("config", "", "YAML file of configuration variables")
	f.String("log-level", "Error", "log level: Debug, Info, Warning, Error or Fatal")
	f.String("log-path", "", "rotated log file, in addition to stderr")
	f.Bool("suppress", false, "suppress repeated log messages")
	f.String("pds", "0", "private data specifier in force at the start of descriptor loops")
	f.String("table", "none", "table containing the descriptor loops, e.g. PMT, NIT or SCTE")
	f.Uint("workers", 0, "maximum number of files processed concurrently, 0 for one per CPU")
	f.Uint("margin", 2, "indentation of displayed descriptors")
}
