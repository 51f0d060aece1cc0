/*
NAME
  registry.go

DESCRIPTION
  registry.go provides the process wide descriptor registry holding every
  descriptor kind of this module.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package registry provides the default descriptor registry.
package registry

import (
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/tsmeta/container/mts/desc"
	"github.com/ausocean/tsmeta/container/mts/desc/dvb"
	"github.com/ausocean/tsmeta/container/mts/desc/mpeg"
	"github.com/ausocean/tsmeta/container/mts/desc/scte"
)

// registrars are applied in order to build the default registry.
var registrars = []func(*desc.Builder){
	mpeg.Register,
	dvb.Register,
	scte.Register,
}

// Build returns a new registry holding every descriptor kind. Registration
// is logged to l, which may be nil.
func Build(l logging.Logger) (*desc.Registry, error) {
	b := desc.NewBuilder(l)
	for _, r := range registrars {
		r(b)
	}
	return b.Build()
}

var def = sync.OnceValues(func() (*desc.Registry, error) { return Build(nil) })

// Default returns the process wide registry, built on first use. The
// registry is read only and safe for concurrent use.
func Default() (*desc.Registry, error) { return def() }

// MustDefault is like Default but panics if the registry cannot be built,
// which only happens if the registrations are inconsistent.
func MustDefault() *desc.Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}
