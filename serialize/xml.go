package serialize

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"reflect"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterFormat("Xml", func() Format { return &xmlFormat{} })
}

// xmlFormat is a lightweight per-field XML element encoding, grounded
// on SerializeXml.c's tag-per-field shape but delegating the actual
// marshalling to encoding/xml rather than hand-building element text.
type xmlFormat struct {
	dec *xml.Decoder
}

func (xmlFormat) Name() string { return "Xml" }

func (f *xmlFormat) decoder(w *Serialize) *xml.Decoder {
	if f.dec == nil {
		f.dec = xml.NewDecoder(bufio.NewReader(w.channel))
	}
	return f.dec
}

type xmlElement struct {
	XMLName xml.Name
	Type    string `xml:"type,attr,omitempty"`
	Value   string `xml:",chardata"`
}

func (f *xmlFormat) writeElement(w *Serialize, name, typeName, value string) error {
	e := xmlElement{XMLName: xml.Name{Local: sanitizeTag(name)}, Type: typeName, Value: value}
	b, err := xml.Marshal(e)
	if err != nil {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/xml: marshal", err)
	}
	b = append(b, '\n')
	if _, err := w.channel.Write(b); err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/xml: write", err)
	}
	return nil
}

func (f *xmlFormat) readElement(w *Serialize) (xmlElement, error) {
	var e xmlElement
	if err := f.decoder(w).Decode(&e); err != nil {
		return e, errors.E(errors.SerializeTruncated, "serialize/xml: decode", err)
	}
	return e, nil
}

// sanitizeTag drops characters XML element names can't carry, such
// as the "[" "]" array-indexing syntax used elsewhere in this package.
func sanitizeTag(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r == '[' || r == ']':
			continue
		default:
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return "field"
	}
	return string(out)
}

func (f *xmlFormat) WriteHeader(w *Serialize, h *Header) error {
	value := h.Format
	return f.writeElement(w, "header", "Header", value)
}

func (f *xmlFormat) ReadHeader(w *Serialize, h *Header) error {
	e, err := f.readElement(w)
	if err != nil {
		return err
	}
	h.Magic = headerMagic
	h.Format = e.Value
	h.MajorVersion, h.MinorVersion = 1, 0
	return nil
}

func (f *xmlFormat) marker(w *Serialize, name, typeName string) error {
	if w.mode == ModeRead {
		_, err := f.readElement(w)
		return err
	}
	return f.writeElement(w, name, typeName, "")
}

func (f *xmlFormat) BeginType(w *Serialize, name, typeName string) error { return f.marker(w, "begin_"+name, typeName) }
func (f *xmlFormat) EndType(w *Serialize, name string) error             { return f.marker(w, "end_"+name, "") }
func (f *xmlFormat) BeginBaseType(w *Serialize, name, typeName string) error {
	return f.marker(w, "beginBase_"+name, typeName)
}
func (f *xmlFormat) EndBaseType(w *Serialize, name string) error { return f.marker(w, "endBase_"+name, "") }

func (f *xmlFormat) WritePrimitive(w *Serialize, name string, v interface{}) error {
	return f.writeElement(w, name, "", fmt.Sprintf("%v", v))
}

func (f *xmlFormat) ReadPrimitive(w *Serialize, name string, ptr interface{}) error {
	e, err := f.readElement(w)
	if err != nil {
		return err
	}
	if _, err := fmt.Sscan(e.Value, ptr); err != nil {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/xml: cannot parse "+e.Value, err)
	}
	return nil
}

func (f *xmlFormat) WriteArray(w *Serialize, name string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/xml: WriteArray: not a slice: "+name)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := f.WritePrimitive(w, fmt.Sprintf("%s_%d", name, i), rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (f *xmlFormat) ReadArray(w *Serialize, name string, ptr interface{}) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/xml: ReadArray: not a slice pointer: "+name)
	}
	slice := rv.Elem()
	for i := 0; i < slice.Len(); i++ {
		if err := f.ReadPrimitive(w, name, slice.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (f *xmlFormat) BeginStructArray(w *Serialize, name, elementType string, length int) error {
	return f.marker(w, "structArray_"+name, elementType)
}

func (f *xmlFormat) StructArraySeparator(w *Serialize, name string, index, length int) error {
	return nil
}

func (f *xmlFormat) EndStructArray(w *Serialize, name string) error {
	return f.marker(w, "endStructArray_"+name, "")
}
