/*
NAME
  registry.go

DESCRIPTION
  registry.go provides the Builder and the immutable Registry which resolve
  descriptor identities and XML names to codec factories.

AUTHORS
  The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package desc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/tsmeta/container/mts/bits"
)

// Factory returns a new, empty codec of one kind.
type Factory func() Codec

// Context is the environment of a descriptor being displayed.
type Context struct {
	PDS uint32
	TID TID
}

// DisplayFunc writes a human readable form of a payload, excluding the
// extension tag, to w. Each line starts with margin. Problems are reported
// through the buffer error latches; unread data is displayed by the caller.
type DisplayFunc func(w io.Writer, b *bits.Buffer, margin string, ctx Context)

// Registration declares one descriptor kind. A kind valid in several tables
// is registered once per table with the same XML name.
type Registration struct {
	Identity      Identity
	XMLName       string
	LegacyXMLName string
	Factory       Factory
	Display       DisplayFunc
}

// DuplicateRegistrationError lists the conflicting registrations found by
// Builder.Build.
type DuplicateRegistrationError struct {
	Conflicts []string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicate, strings.Join(e.Conflicts, "; "))
}

func (e *DuplicateRegistrationError) Is(target error) bool { return target == ErrDuplicate }

// Builder collects registrations. It is not safe for concurrent use.
type Builder struct {
	regs []Registration
	log  logging.Logger
}

// NewBuilder returns an empty Builder logging to l, which may be nil.
func NewBuilder(l logging.Logger) *Builder {
	if l == nil {
		l = logging.New(logging.Error, io.Discard, true)
	}
	return &Builder{log: l}
}

// Register adds r. Errors are reported by Build.
func (b *Builder) Register(r Registration) {
	b.log.Debug("registering descriptor", "identity", r.Identity.String(), "name", r.XMLName)
	b.regs = append(b.regs, r)
}

type entry struct {
	Registration
	kind reflect.Type
}

// Registry resolves descriptors. It is immutable once built and safe for
// concurrent use.
type Registry struct {
	byID   map[Identity]*entry
	byName map[string]*entry
	tables map[string][]TID // Allowed tables of table specific XML names.
	global map[string]bool  // XML names with a global registration.
	log    logging.Logger
}

// Build checks the registrations and returns the Registry. Registering the
// same identity twice, or one XML name for two kinds, is an error and no
// Registry is returned.
func (b *Builder) Build() (*Registry, error) {
	reg := &Registry{
		byID:   make(map[Identity]*entry),
		byName: make(map[string]*entry),
		tables: make(map[string][]TID),
		global: make(map[string]bool),
		log:    b.log,
	}
	var errs []error
	var dup DuplicateRegistrationError
	for _, r := range b.regs {
		err := r.Identity.Validate()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.XMLName, err))
			continue
		}
		if r.Factory == nil || r.XMLName == "" {
			errs = append(errs, fmt.Errorf("%s: %w: missing factory or XML name", r.Identity, ErrInvalidIdentity))
			continue
		}
		c := r.Factory()
		if c.Identity().Tag() != r.Identity.Tag() || !strings.EqualFold(c.XMLName(), r.XMLName) {
			errs = append(errs, fmt.Errorf("%s: %w: factory produces %s <%s>", r.Identity, ErrMismatch, c.Identity(), c.XMLName()))
			continue
		}
		e := &entry{Registration: r, kind: reflect.TypeOf(c)}

		if prev, ok := reg.byID[r.Identity]; ok {
			dup.Conflicts = append(dup.Conflicts, fmt.Sprintf("identity %s registered as <%s> and <%s>", r.Identity, prev.XMLName, r.XMLName))
			b.log.Error("duplicate descriptor identity", "identity", r.Identity.String())
			continue
		}
		conflict := false
		for _, name := range []string{r.XMLName, r.LegacyXMLName} {
			if name == "" {
				continue
			}
			k := strings.ToLower(name)
			if prev, ok := reg.byName[k]; ok && prev.kind != e.kind {
				dup.Conflicts = append(dup.Conflicts, fmt.Sprintf("XML name <%s> registered for %s and %s", name, prev.Identity, r.Identity))
				b.log.Error("duplicate descriptor XML name", "name", name)
				conflict = true
			}
		}
		if conflict {
			continue
		}

		reg.byID[r.Identity] = e
		for _, name := range []string{r.XMLName, r.LegacyXMLName} {
			if name == "" {
				continue
			}
			k := strings.ToLower(name)
			if _, ok := reg.byName[k]; !ok {
				reg.byName[k] = e
			}
			if tid, ok := r.Identity.TableID(); ok {
				if !slices.Contains(reg.tables[k], tid) {
					reg.tables[k] = append(reg.tables[k], tid)
				}
			} else {
				reg.global[k] = true
			}
		}
	}
	if len(dup.Conflicts) > 0 {
		errs = append(errs, &dup)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	for _, t := range reg.tables {
		slices.Sort(t)
	}
	b.log.Info("descriptor registry built", "kinds", len(reg.byID), "names", len(reg.byName))
	return reg, nil
}

// Resolve returns the factory of the descriptor with the given tag, private
// data specifier and extension tag found in table tid. The extension tag is
// only considered for the extension descriptor tag and the private data
// specifier only for private tags. A registration specific to tid takes
// priority over a global one.
func (r *Registry) Resolve(tag uint8, pds uint32, ext uint8, tid TID) (Factory, bool) {
	e, ok := r.resolve(tag, pds, ext, tid)
	if !ok {
		return nil, false
	}
	return e.Factory, true
}

func (r *Registry) resolve(tag uint8, pds uint32, ext uint8, tid TID) (*entry, bool) {
	var scoped, global Identity
	switch {
	case tag == ExtensionTag:
		scoped, global = TableSpecificExtension(ext, tid), Extension(ext)
	case tag >= PrivateTagMin:
		scoped, global = TableSpecific(tag, tid), Private(tag, pds)
	default:
		scoped, global = TableSpecific(tag, tid), Regular(tag)
	}
	if tid != TIDNull {
		if e, ok := r.byID[scoped]; ok {
			return e, true
		}
	}
	e, ok := r.byID[global]
	return e, ok
}

// resolveRecord resolves the kind of rec.
func (r *Registry) resolveRecord(rec Record, pds uint32, tid TID) (*entry, bool) {
	ext, isExt := rec.ExtensionTag()
	if rec.Tag == ExtensionTag && !isExt {
		return nil, false
	}
	return r.resolve(rec.Tag, pds, ext, tid)
}

// Lookup returns the registration of exactly id.
func (r *Registry) Lookup(id Identity) (Registration, bool) {
	e, ok := r.byID[id]
	if !ok {
		return Registration{}, false
	}
	return e.Registration, true
}

// FactoryByName returns the factory of the descriptor with the given primary
// or legacy XML name.
func (r *Registry) FactoryByName(name string) (Factory, bool) {
	e, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return e.Factory, true
}

// IsAllowedIn reports whether the descriptor with the given XML name may
// appear in table tid. Descriptors with a global registration are allowed in
// every table.
func (r *Registry) IsAllowedIn(name string, tid TID) bool {
	k := strings.ToLower(name)
	if r.global[k] {
		return true
	}
	return slices.Contains(r.tables[k], tid)
}

// TablesFor returns the tables a table specific descriptor is allowed in, or
// nil for a global descriptor.
func (r *Registry) TablesFor(name string) []TID {
	return slices.Clone(r.tables[strings.ToLower(name)])
}

// Identities returns all registered identities in order.
func (r *Registry) Identities() []Identity {
	ids := make([]Identity, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, Identity.Compare)
	return ids
}

// Names returns all registered primary XML names in order.
func (r *Registry) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range r.byID {
		if !seen[e.XMLName] {
			seen[e.XMLName] = true
			names = append(names, e.XMLName)
		}
	}
	sort.Strings(names)
	return names
}

// Name returns the XML name of the kind of rec, or the generic name.
func (r *Registry) Name(rec Record, pds uint32, tid TID) string {
	e, ok := r.resolveRecord(rec, pds, tid)
	if !ok {
		return GenericXMLName
	}
	return e.XMLName
}

// Decode resolves and decodes rec found in table tid with private data
// specifier pds. A record of unknown kind is returned as a Raw with a nil
// error. A record which fails to decode is returned as a Raw along with an
// error wrapping ErrMalformed.
func (r *Registry) Decode(rec Record, pds uint32, tid TID) (Codec, error) {
	if !rec.Valid() {
		return NewRaw(rec), fmt.Errorf("%w: tag 0x%02X with %d bytes of payload", ErrMalformed, rec.Tag, len(rec.Payload))
	}
	e, ok := r.resolveRecord(rec, pds, tid)
	if !ok {
		return NewRaw(rec), nil
	}
	c := e.Factory()
	err := Deserialize(c, rec)
	if err != nil {
		r.log.Debug("could not decode descriptor", "identity", e.Identity.String(), "error", err.Error())
		return NewRaw(rec), err
	}
	return c, nil
}

// Display writes a human readable form of rec to w. Unknown kinds and
// payloads the display function leaves unread are shown as hex dumps, and
// decoding problems are reported.
func (r *Registry) Display(w io.Writer, rec Record, pds uint32, tid TID, margin string) {
	e, ok := r.resolveRecord(rec, pds, tid)
	if !ok || e.Display == nil {
		dump(w, rec.Payload, margin)
		return
	}
	payload := rec.Payload
	if _, isExt := e.Identity.ExtensionTag(); isExt {
		payload = payload[1:]
	}
	b := bits.NewReader(payload)
	e.Display(w, b, margin, Context{PDS: pds, TID: tid})
	if b.HasError() {
		fmt.Fprintf(w, "%s- Invalid content: %v\n", margin, b.Err())
		b.ClearErrors()
	}
	for b.Depth() > 0 {
		b.PopReadSize()
	}
	if !b.ByteAligned() {
		b.SkipBits(8 - b.BitOffset()%8)
	}
	if rest := b.GetRemaining(); len(rest) > 0 {
		fmt.Fprintf(w, "%sExtraneous %d bytes:\n", margin, len(rest))
		dump(w, rest, margin+"  ")
	}
}

// dump writes a hex dump of b with each line prefixed by margin.
func dump(w io.Writer, b []byte, margin string) {
	if len(b) == 0 {
		return
	}
	for _, l := range strings.SplitAfter(strings.TrimSuffix(hex.Dump(b), "\n"), "\n") {
		fmt.Fprintf(w, "%s%s", margin, l)
	}
	fmt.Fprintln(w)
}
