// Package serialize implements a self-describing, format-pluggable wire
// encoding layered on top of iochannel. It is the Go-native descendant
// of ToolBOSLib's Serialize.c / SerializeTypes.h / SerializeStructTypes.h:
// the original's one-function-per-primitive-C-type signatures
// (Int_serialize, Float_serialize, Double_serialize, ...) collapse into
// a single interface{}-based WritePrimitive/ReadPrimitive pair per
// Format, the same way encoding/json collapses per-type marshalling
// into one Marshal/Unmarshal pair, and the same type-switch idiom the
// errors package already uses in E. STRUCT_ARRAY_SERIALIZE's macro
// expansion becomes BeginStructArray/StructArraySeparator/EndStructArray
// methods on Serialize.
//
// Every stream begins with a Header identifying the format name and
// version, mirroring the original's magic-number preamble, so a reader
// can detect a format/version mismatch before attempting to decode a
// single field.
package serialize

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/HRI-EU/gobos/errors"
	"github.com/HRI-EU/gobos/iochannel"
)

// Mode selects the direction a Serialize instance operates in.
type Mode int

const (
	// ModeWrite encodes values to the underlying channel.
	ModeWrite Mode = iota
	// ModeRead decodes values from the underlying channel.
	ModeRead
	// ModeCalc computes the encoded size without producing real output;
	// it is paired with an iochannel Calc channel, grounded on the
	// original's SERIALIZE_CALCSIZE mode used to size buffers up front.
	ModeCalc
)

// Header is the preamble every stream carries: a fixed magic tag, the
// format name used to encode/decode the body, a two-part version, and
// four size fields (the original reserves four size_t slots in its
// stream header for array/struct bookkeeping). Open always writes the
// four Sizes as zero and does not compare them on read; Serialize has
// no setter for them.
type Header struct {
	Magic        string
	Format       string
	MajorVersion int
	MinorVersion int
	Sizes        [4]int64
}

const headerMagic = "GOBOS-SERIALIZE"

// Format is the v-table a wire encoding implements: header framing,
// type/struct nesting markers, primitive leaves, array leaves and
// struct-array framing. Concrete formats (Binary, Ascii, Json, Xml,
// Matlab) register themselves with RegisterFormat from their own
// package init(), mirroring iochannel's scheme registry.
type Format interface {
	Name() string

	WriteHeader(w *Serialize, h *Header) error
	ReadHeader(w *Serialize, h *Header) error

	BeginType(w *Serialize, name, typeName string) error
	EndType(w *Serialize, name string) error

	BeginBaseType(w *Serialize, name, typeName string) error
	EndBaseType(w *Serialize, name string) error

	// WritePrimitive and ReadPrimitive collapse Char_serialize,
	// Int_serialize, Float_serialize, Double_serialize, etc. into one
	// pair of methods; v's dynamic type selects the wire
	// representation via a type switch in each format's implementation.
	WritePrimitive(w *Serialize, name string, v interface{}) error
	ReadPrimitive(w *Serialize, name string, ptr interface{}) error

	// WriteArray and ReadArray collapse IntArray_serialize,
	// FloatArray_serialize, etc. the same way; v/ptr must be a slice of
	// a supported primitive element type.
	WriteArray(w *Serialize, name string, v interface{}) error
	ReadArray(w *Serialize, name string, ptr interface{}) error

	BeginStructArray(w *Serialize, name, elementType string, length int) error
	StructArraySeparator(w *Serialize, name string, index, length int) error
	EndStructArray(w *Serialize, name string) error
}

type formatFactory func() Format

var (
	registryMu sync.RWMutex
	registry   = make(map[string]formatFactory)
)

// RegisterFormat makes a format available to Open by name. Called from
// each format's package init(); panics on a duplicate name, mirroring
// iochannel.RegisterScheme.
func RegisterFormat(name string, factory formatFactory) {
	if factory == nil {
		panic("serialize: nil factory for format " + name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic("serialize: format already registered: " + name)
	}
	registry[name] = factory
}

// FindFormat returns the factory registered under name, or nil.
func FindFormat(name string) formatFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

// Serialize drives one Format against one iochannel.Channel. Errors are
// sticky, following the same first-error-wins contract as
// iochannel.Channel (grounded on errors.Once, shared across both
// packages): once any Begin/End/Write/Read call fails, every later call
// on the same Serialize returns that same error without touching the
// channel or the format again.
type Serialize struct {
	channel *iochannel.Channel
	format  Format
	mode    Mode
	sticky  errors.Once

	// typeStack records the name passed to each BeginType/BeginBaseType
	// so EndType/EndBaseType can check the matching name was passed,
	// the Go equivalent of the original's depth-tracked name check.
	typeStack []string
}

// Open binds formatName to channel in the given mode and, unless mode
// is ModeCalc, writes (ModeWrite) or reads+validates (ModeRead) the
// stream header.
func Open(channel *iochannel.Channel, formatName string, mode Mode) (*Serialize, error) {
	factory := FindFormat(formatName)
	if factory == nil {
		return nil, errors.E(errors.SerializeFormatMismatch, "serialize: no format registered: "+formatName)
	}
	s := &Serialize{
		channel: channel,
		format:  factory(),
		mode:    mode,
	}
	if mode == ModeCalc {
		return s, nil
	}
	h := &Header{Magic: headerMagic, Format: formatName, MajorVersion: 1, MinorVersion: 0}
	switch mode {
	case ModeWrite:
		if err := s.format.WriteHeader(s, h); err != nil {
			return nil, s.record(err)
		}
	case ModeRead:
		got := new(Header)
		if err := s.format.ReadHeader(s, got); err != nil {
			return nil, s.record(err)
		}
		if got.Magic != headerMagic {
			return nil, s.record(errors.E(errors.SerializeHeaderMagicMismatch, "serialize: bad magic "+got.Magic))
		}
		if got.Format != formatName {
			return nil, s.record(errors.E(errors.SerializeFormatMismatch, "serialize: stream format "+got.Format+" != "+formatName))
		}
		if got.MajorVersion != h.MajorVersion || got.MinorVersion != h.MinorVersion {
			return nil, s.record(errors.E(errors.SerializeVersionMismatch, fmt.Sprintf("serialize: stream version %d.%d != %d.%d",
				got.MajorVersion, got.MinorVersion, h.MajorVersion, h.MinorVersion)))
		}
	}
	return s, nil
}

// Channel returns the iochannel.Channel backing s.
func (s *Serialize) Channel() *iochannel.Channel { return s.channel }

// Mode returns the direction s operates in.
func (s *Serialize) Mode() Mode { return s.mode }

// Err returns the first error recorded by s, or nil.
func (s *Serialize) Err() error { return s.sticky.Err() }

func (s *Serialize) record(err error) error {
	s.sticky.Set(err)
	return err
}

func (s *Serialize) guard() error {
	return s.sticky.Err()
}

// BeginType opens a named, typed struct scope, the Go equivalent of the
// original's Serialize_beginType(s, name, typeName).
func (s *Serialize) BeginType(name, typeName string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.format.BeginType(s, name, typeName); err != nil {
		return s.record(err)
	}
	s.typeStack = append(s.typeStack, name)
	return nil
}

// EndType closes the scope opened by the most recent BeginType. name
// must match the name passed to that BeginType, or EndType returns an
// error of kind errors.SerializeNameMismatch.
func (s *Serialize) EndType(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.popTypeStack(name); err != nil {
		return s.record(err)
	}
	if err := s.format.EndType(s, name); err != nil {
		return s.record(err)
	}
	return nil
}

// BeginBaseType and EndBaseType bracket the base-class portion of a
// derived struct, mirroring the original's Serialize_beginBaseType /
// Serialize_endBaseType used when a struct embeds a common header.
func (s *Serialize) BeginBaseType(name, typeName string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.format.BeginBaseType(s, name, typeName); err != nil {
		return s.record(err)
	}
	s.typeStack = append(s.typeStack, name)
	return nil
}

func (s *Serialize) EndBaseType(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.popTypeStack(name); err != nil {
		return s.record(err)
	}
	if err := s.format.EndBaseType(s, name); err != nil {
		return s.record(err)
	}
	return nil
}

func (s *Serialize) popTypeStack(name string) error {
	if len(s.typeStack) == 0 {
		return errors.E(errors.SerializeNameMismatch, fmt.Sprintf("serialize: EndType(%q) with no matching BeginType", name))
	}
	top := s.typeStack[len(s.typeStack)-1]
	if top != name {
		return errors.E(errors.SerializeNameMismatch, fmt.Sprintf("serialize: EndType(%q) does not match BeginType(%q)", name, top))
	}
	s.typeStack = s.typeStack[:len(s.typeStack)-1]
	return nil
}

// Primitive writes or reads a single primitive value depending on s's
// mode, collapsing the original's per-type *_serialize functions into
// one call site. v must be a pointer when s is in ModeRead; in ModeWrite
// and ModeCalc a non-nil pointer is dereferenced before encoding, so the
// same call serves both directions.
func (s *Serialize) Primitive(name string, v interface{}) error {
	if err := s.guard(); err != nil {
		return err
	}
	var err error
	switch s.mode {
	case ModeWrite, ModeCalc:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && !rv.IsNil() {
			v = rv.Elem().Interface()
		}
		err = s.format.WritePrimitive(s, name, v)
	case ModeRead:
		err = s.format.ReadPrimitive(s, name, v)
	}
	if err != nil {
		return s.record(err)
	}
	return nil
}

// Array writes or reads a fixed-length slice of primitives, collapsing
// the original's per-type *Array_serialize functions.
func (s *Serialize) Array(name string, v interface{}) error {
	if err := s.guard(); err != nil {
		return err
	}
	var err error
	switch s.mode {
	case ModeWrite, ModeCalc:
		err = s.format.WriteArray(s, name, v)
	case ModeRead:
		err = s.format.ReadArray(s, name, v)
	}
	if err != nil {
		return s.record(err)
	}
	return nil
}

// BeginStructArray, StructArraySeparator and EndStructArray together
// replace the STRUCT_ARRAY_SERIALIZE macro: callers loop over the
// array themselves, calling StructArraySeparator between elements and
// serializing each element's fields with Begin/EndType as usual.
func (s *Serialize) BeginStructArray(name, elementType string, length int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.format.BeginStructArray(s, name, elementType, length); err != nil {
		return s.record(err)
	}
	return nil
}

func (s *Serialize) StructArraySeparator(name string, index, length int) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.format.StructArraySeparator(s, name, index, length); err != nil {
		return s.record(err)
	}
	return nil
}

func (s *Serialize) EndStructArray(name string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.format.EndStructArray(s, name); err != nil {
		return s.record(err)
	}
	return nil
}

// Close flushes and closes the underlying channel.
func (s *Serialize) Close() error {
	if err := s.channel.Close(); err != nil {
		return s.record(err)
	}
	return nil
}
