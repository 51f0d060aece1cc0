/*
NAME
  cmd_test.go

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cmd

import (
	"bytes"
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ausocean/tsmeta/config"
	"github.com/ausocean/tsmeta/container/mts"
	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/dvb"
	"github.com/ausocean/tsmeta/container/mts/desc/mpeg"
	"github.com/ausocean/tsmeta/container/mts/desc/registry"
)

// nitLoop holds a cable delivery descriptor, an EACEM logical channel number
// descriptor with its specifier, a short T2 delivery descriptor and an
// unknown private descriptor.
var nitLoop = []byte{
	0x44, 0x0B, 0x04, 0x75, 0x00, 0x00, 0xFF, 0xF2, 0x03, 0x00, 0x68, 0x00, 0x04,
	0x5F, 0x04, 0x00, 0x00, 0x00, 0x28,
	0x83, 0x04, 0x01, 0x01, 0xC0, 0x01,
	0x7F, 0x04, 0x04, 0x01, 0x02, 0x03,
	0xF0, 0x02, 0xAB, 0xCD,
}

func newTestApp(t *testing.T, tid desc.TID) *app {
	t.Helper()
	return &app{
		cfg: config.Config{
			Logger:  (*logging.TestLogger)(t),
			TableID: tid,
			Workers: 2,
			Margin:  2,
		},
		log: (*logging.TestLogger)(t),
		reg: registry.MustDefault(),
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestReadWriteLoop(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"loop.bin", "loop.hex", "loop.TXT"} {
		path := filepath.Join(dir, name)
		require.NoError(t, writeLoop(path, nitLoop))
		got, err := readLoop(path)
		require.NoError(t, err, name)
		assert.Equal(t, nitLoop, got, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "loop.hex"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "440B0475"))

	path := writeFile(t, "spaced.hex", []byte("44 0b\n04 75\n"))
	got, err := readLoop(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x44, 0x0b, 0x04, 0x75}, got)

	_, err = readLoop(writeFile(t, "bad.hex", []byte("4")))
	assert.Error(t, err)
}

func TestDisplayFiles(t *testing.T) {
	a := newTestApp(t, desc.TIDNIT)
	bin := writeFile(t, "nit.bin", nitLoop)
	hexPath := writeFile(t, "nit.hex", []byte(hex.EncodeToString(nitLoop)))

	var buf bytes.Buffer
	require.NoError(t, displayFiles(context.Background(), a, &buf, []string{bin, hexPath}))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "35 bytes, 5 descriptors"))
	assert.Less(t, strings.Index(out, bin), strings.Index(out, hexPath), "displays are in argument order")

	// The cable delivery descriptor and the specifier precede the truncation.
	truncated := writeFile(t, "short.bin", nitLoop[:21])
	buf.Reset()
	err := displayFiles(context.Background(), a, &buf, []string{truncated})
	assert.ErrorIs(t, err, desc.ErrMalformed)
	assert.Contains(t, buf.String(), "21 bytes, 2 descriptors")

	buf.Reset()
	err = displayFiles(context.Background(), a, &buf, []string{filepath.Join(t.TempDir(), "missing.bin")})
	assert.Error(t, err)
}

func TestXMLRoundTrip(t *testing.T) {
	a := newTestApp(t, desc.TIDNIT)
	in := writeFile(t, "nit.bin", nitLoop)

	var doc bytes.Buffer
	require.NoError(t, toXML(a, &doc, in))
	assert.Contains(t, doc.String(), `table="NIT"`)
	assert.Contains(t, doc.String(), "<"+dvb.CableDeliveryXMLName)

	xmlPath := writeFile(t, "nit.xml", doc.Bytes())
	for _, name := range []string{"out.bin", "out.hex"} {
		out := filepath.Join(t.TempDir(), name)
		// The table attribute of the document overrides the configured table.
		b := newTestApp(t, desc.TIDNull)
		require.NoError(t, compileFile(b, xmlPath, out))
		got, err := readLoop(out)
		require.NoError(t, err)
		assert.Equal(t, nitLoop, got, name)
	}
}

func TestCompileErrors(t *testing.T) {
	a := newTestApp(t, desc.TIDNull)
	out := filepath.Join(t.TempDir(), "out.bin")

	tests := []struct {
		name string
		doc  string
	}{
		{name: "wrong root", doc: `<NIT/>`},
		{name: "bad table", doc: `<tsmeta table="nonsense"/>`},
		{name: "not allowed", doc: `<tsmeta table="NIT"><ausocean_metadata_descriptor version="1.0"/></tsmeta>`},
		{name: "not xml", doc: `<tsmeta`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := compileFile(a, writeFile(t, "in.xml", []byte(test.doc)), out)
			assert.Error(t, err)
		})
	}
}

func TestListDescriptors(t *testing.T) {
	var buf bytes.Buffer
	listDescriptors(newTestApp(t, desc.TIDNull), &buf)
	out := buf.String()
	assert.Contains(t, out, dvb.CableDeliveryXMLName)
	assert.Contains(t, out, "(legacy "+dvb.LCNLegacyXMLName+")")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, mpeg.MetadataXMLName) {
			assert.True(t, strings.HasSuffix(line, " in PMT"), line)
		}
	}
}

func TestDisplayPMT(t *testing.T) {
	var clip bytes.Buffer
	e, err := mts.NewEncoder(nopCloser{&clip}, registry.MustDefault(), (*logging.TestLogger)(t))
	require.NoError(t, err)
	e.AddMeta("loc", "-34.9,138.6")
	require.NoError(t, e.WritePSI())

	a := newTestApp(t, desc.TIDNull)
	var buf bytes.Buffer
	require.NoError(t, displayPMT(a, &buf, writeFile(t, "clip.ts", clip.Bytes())))
	out := buf.String()
	assert.Contains(t, out, "program 1")
	assert.Contains(t, out, "Program information, 1 descriptors")
	assert.Contains(t, out, "Elementary stream: type 0x1B, PID 0x0100, 0 descriptors")

	err = displayPMT(a, &buf, writeFile(t, "empty.ts", nil))
	assert.Error(t, err)
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }
