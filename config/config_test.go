/*
NAME
  config_test.go

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
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/dvb"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := Config{
		Logger:   dl,
		LogLevel: logging.Debug,
		TableID:  defaultTableID,
		Workers:  defaultWorkers,
	}

	got := Config{Logger: dl, LogLevel: logging.Debug}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}

	bad := Config{Logger: dl, LogLevel: 42, Margin: maxMargin + 1, TableID: desc.TIDNIT, Workers: 3}
	bad.Validate()
	want = Config{Logger: dl, LogLevel: defaultVerbosity, Margin: defaultMargin, TableID: desc.TIDNIT, Workers: 3}
	if !cmp.Equal(bad, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, bad)
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"logging":  "Warning",
		"LogPath":  "/var/log/tsdesc.log",
		"Margin":   "4",
		"PDS":      "EACEM",
		"Suppress": "true",
		"TableID":  "NIT",
		"Workers":  "8",
	}

	dl := &dumbLogger{}
	want := Config{
		Logger:   dl,
		LogLevel: logging.Warning,
		LogPath:  "/var/log/tsdesc.log",
		Margin:   4,
		PDS:      dvb.PDSEACEM,
		Suppress: true,
		TableID:  desc.TIDNIT,
		Workers:  8,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestUpdateNumeric(t *testing.T) {
	got := Config{Logger: &dumbLogger{}}
	got.Update(map[string]string{"PDS": "0x12345678", "TableID": "0xFC"})
	if got.PDS != 0x12345678 {
		t.Errorf("unexpected PDS: 0x%08X", got.PDS)
	}
	if got.TableID != desc.TIDSCTE {
		t.Errorf("unexpected table ID: 0x%02X", got.TableID)
	}

	// A table ID wider than 8 bits is rejected.
	got.Update(map[string]string{"TableID": "0x100"})
	if got.TableID != 0 {
		t.Errorf("unexpected table ID: 0x%02X", got.TableID)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsdesc.yaml")
	const data = "logging: Info\nPDS: 0x28\nTableID: PMT\nSuppress: false\nWorkers: 2\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	vars, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]string{
		"logging":  "Info",
		"PDS":      "40",
		"TableID":  "PMT",
		"Suppress": "false",
		"Workers":  "2",
	}
	if diff := cmp.Diff(want, vars); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}

	c := Config{Logger: &dumbLogger{}}
	c.Update(vars)
	if c.PDS != dvb.PDSEACEM || c.TableID != desc.TIDPMT || c.Workers != 2 {
		t.Errorf("unexpected config: %+v", c)
	}

	if _, err := Parse([]byte("logging: [a, b]\n")); err == nil {
		t.Error("expected error for non scalar variable")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
