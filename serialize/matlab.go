package serialize

import (
	"fmt"
	"reflect"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterFormat("Matlab", func() Format { return &matlabFormat{} })
}

// matlabFormat emits a ".m" script assigning one MATLAB variable per
// field, grounded on SerializeMatlab.c. It is write-only: MATLAB
// scripts are a one-way export for plotting/debugging in the original
// tool, so ReadHeader/ReadPrimitive/ReadArray return
// errors.NotSupported rather than attempting to parse M-code back.
type matlabFormat struct {
	prefix []string
}

func (matlabFormat) Name() string { return "Matlab" }

func (f *matlabFormat) varName(name string) string {
	full := name
	for i := len(f.prefix) - 1; i >= 0; i-- {
		full = f.prefix[i] + "_" + full
	}
	return sanitizeMatlabIdent(full)
}

func sanitizeMatlabIdent(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func notSupported(what string) error {
	return errors.E(errors.NotSupported, "serialize/matlab: "+what+" is write-only")
}

func (f *matlabFormat) WriteHeader(w *Serialize, h *Header) error {
	_, err := fmt.Fprintf(w.channel, "%% generated by %s %d.%d\n", h.Format, h.MajorVersion, h.MinorVersion)
	return f.wrapErr(err)
}

func (matlabFormat) ReadHeader(w *Serialize, h *Header) error { return notSupported("ReadHeader") }

func (f *matlabFormat) BeginType(w *Serialize, name, typeName string) error {
	f.prefix = append(f.prefix, name)
	return nil
}

func (f *matlabFormat) EndType(w *Serialize, name string) error {
	if len(f.prefix) > 0 {
		f.prefix = f.prefix[:len(f.prefix)-1]
	}
	return nil
}

func (f *matlabFormat) BeginBaseType(w *Serialize, name, typeName string) error {
	return f.BeginType(w, name, typeName)
}

func (f *matlabFormat) EndBaseType(w *Serialize, name string) error { return f.EndType(w, name) }

func (f *matlabFormat) WritePrimitive(w *Serialize, name string, v interface{}) error {
	var rhs string
	if s, ok := v.(string); ok {
		rhs = fmt.Sprintf("%q", s)
	} else {
		rhs = fmt.Sprintf("%v", v)
	}
	_, err := fmt.Fprintf(w.channel, "%s = %s;\n", f.varName(name), rhs)
	return f.wrapErr(err)
}

func (matlabFormat) ReadPrimitive(w *Serialize, name string, ptr interface{}) error {
	return notSupported("ReadPrimitive")
}

func (f *matlabFormat) WriteArray(w *Serialize, name string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/matlab: WriteArray: not a slice: "+name)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprintf("%v", rv.Index(i).Interface())
	}
	line := f.varName(name) + " = ["
	for i, p := range parts {
		if i > 0 {
			line += ", "
		}
		line += p
	}
	line += "];\n"
	_, err := fmt.Fprint(w.channel, line)
	return f.wrapErr(err)
}

func (matlabFormat) ReadArray(w *Serialize, name string, ptr interface{}) error {
	return notSupported("ReadArray")
}

func (f *matlabFormat) BeginStructArray(w *Serialize, name, elementType string, length int) error {
	f.prefix = append(f.prefix, name)
	return nil
}

func (matlabFormat) StructArraySeparator(w *Serialize, name string, index, length int) error {
	return nil
}

func (f *matlabFormat) EndStructArray(w *Serialize, name string) error {
	if len(f.prefix) > 0 {
		f.prefix = f.prefix[:len(f.prefix)-1]
	}
	return nil
}

func (matlabFormat) wrapErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.E(errors.SerializeTruncated, "serialize/matlab: write", err)
}
