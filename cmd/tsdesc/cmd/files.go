/*
NAME
  files.go

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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rootName is the name of the root element of descriptor XML documents.
const rootName = "tsmeta"

// isHexPath reports whether path holds hexadecimal text rather than binary.
func isHexPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".txt":
		return true
	}
	return false
}

// readLoop reads a descriptor loop from a binary file, or from a text file
// of hexadecimal digits when isHexPath.
func readLoop(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !isHexPath(path) {
		return data, nil
	}
	b, err := hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hexadecimal text: %w", path, err)
	}
	return b, nil
}

// writeLoop writes a descriptor loop in the form selected by isHexPath.
func writeLoop(path string, data []byte) error {
	if isHexPath(path) {
		data = []byte(strings.ToUpper(hex.EncodeToString(data)) + "\n")
	}
	return os.WriteFile(path, data, 0644)
}
