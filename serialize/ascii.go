package serialize

import (
	"bufio"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/HRI-EU/gobos/errors"
	"github.com/kr/pretty"
)

func init() {
	RegisterFormat("Ascii", func() Format { return NewAscii() })
	RegisterFormat("AsciiWithType", func() Format { return NewAscii(WithType()) })
}

// AsciiOpt configures an Ascii format instance, the functional-option
// replacement for the original's compile-time WITH_TYPE switch.
type AsciiOpt func(*asciiFormat)

// WithType makes the format annotate each primitive field with the
// declared type of its enclosing BeginType/BeginBaseType, written as
// "/* TypeName */" immediately before the field, per spec's "ASCII
// primitives on the wire" grammar.
func WithType() AsciiOpt {
	return func(f *asciiFormat) { f.withType = true }
}

// NewAscii constructs the Ascii format, configured by opts.
func NewAscii(opts ...AsciiOpt) Format {
	f := &asciiFormat{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// asciiFormat is a human-readable "name = value" line format, grounded
// on Ascii.c's debug-friendly text encoding. When withType is set (via
// WithType, the Go equivalent of the original's WITH_TYPE compile
// option) typeNames tracks the declared type of every BeginType scope
// currently open, so WritePrimitive can annotate a field with the type
// it is actually declared as, e.g. "/* MyPoint */ posX = 5", rather
// than the primitive's own Go runtime type.
type asciiFormat struct {
	withType  bool
	r         *bufio.Reader
	typeNames []string
}

func (f *asciiFormat) currentType() string {
	if len(f.typeNames) == 0 {
		return ""
	}
	return f.typeNames[len(f.typeNames)-1]
}

func (f *asciiFormat) Name() string {
	if f.withType {
		return "AsciiWithType"
	}
	return "Ascii"
}

func (f *asciiFormat) reader(w *Serialize) *bufio.Reader {
	if f.r == nil {
		f.r = bufio.NewReader(w.channel)
	}
	return f.r
}

func (f *asciiFormat) writeLine(w *Serialize, line string) error {
	_, err := fmt.Fprintln(w.channel, line)
	if err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/ascii: write line", err)
	}
	return nil
}

func (f *asciiFormat) readLine(w *Serialize) (string, error) {
	line, err := f.reader(w).ReadString('\n')
	if err != nil {
		return "", errors.E(errors.SerializeTruncated, "serialize/ascii: read line", err)
	}
	return strings.TrimRight(line, "\n"), nil
}

func (f *asciiFormat) WriteHeader(w *Serialize, h *Header) error {
	return f.writeLine(w, fmt.Sprintf("%s %s %d.%d %d %d %d %d",
		h.Magic, h.Format, h.MajorVersion, h.MinorVersion, h.Sizes[0], h.Sizes[1], h.Sizes[2], h.Sizes[3]))
}

func (f *asciiFormat) ReadHeader(w *Serialize, h *Header) error {
	line, err := f.readLine(w)
	if err != nil {
		return err
	}
	var major, minor int
	n, scanErr := fmt.Sscanf(line, "%s %s %d.%d %d %d %d %d",
		&h.Magic, &h.Format, &major, &minor, &h.Sizes[0], &h.Sizes[1], &h.Sizes[2], &h.Sizes[3])
	if scanErr != nil || n != 8 {
		return errors.E(errors.SerializeHeaderMagicMismatch, "serialize/ascii: malformed header line: "+line)
	}
	h.MajorVersion, h.MinorVersion = major, minor
	return nil
}

func (f *asciiFormat) BeginType(w *Serialize, name, typeName string) error {
	f.typeNames = append(f.typeNames, typeName)
	if w.mode == ModeRead {
		_, err := f.readLine(w)
		return err
	}
	if f.withType {
		return f.writeLine(w, fmt.Sprintf("BEGIN %s (%s)", name, typeName))
	}
	return f.writeLine(w, "BEGIN "+name)
}

func (f *asciiFormat) EndType(w *Serialize, name string) error {
	if len(f.typeNames) > 0 {
		f.typeNames = f.typeNames[:len(f.typeNames)-1]
	}
	if w.mode == ModeRead {
		_, err := f.readLine(w)
		return err
	}
	return f.writeLine(w, "END "+name)
}

func (f *asciiFormat) BeginBaseType(w *Serialize, name, typeName string) error {
	return f.BeginType(w, name, typeName)
}

func (f *asciiFormat) EndBaseType(w *Serialize, name string) error {
	return f.EndType(w, name)
}

func (f *asciiFormat) WritePrimitive(w *Serialize, name string, v interface{}) error {
	if f.withType {
		return f.writeLine(w, fmt.Sprintf("/* %s */ %s = %s", f.currentType(), name, f.formatValue(v)))
	}
	return f.writeLine(w, fmt.Sprintf("%s = %s", name, f.formatValue(v)))
}

func (f *asciiFormat) formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%v", v)
}

func (f *asciiFormat) ReadPrimitive(w *Serialize, name string, ptr interface{}) error {
	line, err := f.readLine(w)
	if err != nil {
		return err
	}
	idx := strings.LastIndex(line, "= ")
	if idx < 0 {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/ascii: malformed line: "+line)
	}
	valueText := line[idx+2:]
	return f.parseValue(valueText, ptr)
}

func (f *asciiFormat) parseValue(text string, ptr interface{}) error {
	if p, ok := ptr.(*string); ok {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/ascii: bad quoted string: "+text, err)
		}
		*p = unquoted
		return nil
	}
	if _, err := fmt.Sscan(text, ptr); err != nil {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/ascii: cannot parse "+text, err)
	}
	return nil
}

func (f *asciiFormat) WriteArray(w *Serialize, name string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/ascii: WriteArray: not a slice: "+name)
	}
	if err := f.writeLine(w, fmt.Sprintf("%s[%d] = {", name, rv.Len())); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := f.WritePrimitive(w, fmt.Sprintf("%s[%d]", name, i), rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return f.writeLine(w, "}")
}

func (f *asciiFormat) ReadArray(w *Serialize, name string, ptr interface{}) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/ascii: ReadArray: not a slice pointer: "+name)
	}
	if _, err := f.readLine(w); err != nil { // "name[n] = {"
		return err
	}
	slice := rv.Elem()
	for i := 0; i < slice.Len(); i++ {
		if err := f.ReadPrimitive(w, name, slice.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	_, err := f.readLine(w) // "}"
	return err
}

func (f *asciiFormat) BeginStructArray(w *Serialize, name, elementType string, length int) error {
	if w.mode == ModeRead {
		_, err := f.readLine(w)
		return err
	}
	return f.writeLine(w, fmt.Sprintf("BEGIN_STRUCT_ARRAY %s (%s) %d", name, elementType, length))
}

func (f *asciiFormat) StructArraySeparator(w *Serialize, name string, index, length int) error {
	if w.mode == ModeRead {
		_, err := f.readLine(w)
		return err
	}
	return f.writeLine(w, fmt.Sprintf("-- %s[%d/%d] --", name, index, length))
}

func (f *asciiFormat) EndStructArray(w *Serialize, name string) error {
	if w.mode == ModeRead {
		_, err := f.readLine(w)
		return err
	}
	return f.writeLine(w, "END_STRUCT_ARRAY "+name)
}

// Dump renders v with kr/pretty's multi-line struct formatter, for
// interactive debugging of values that failed to round-trip — the Go
// equivalent of dropping into a debugger on an Ascii-format mismatch.
func Dump(v interface{}) string {
	return pretty.Sprint(v)
}
