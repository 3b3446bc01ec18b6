package serialize

import (
	"bufio"
	"encoding/json"
	"reflect"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterFormat("Json", func() Format { return &jsonFormat{} })
}

// jsonFormat is a lightweight line-delimited-JSON encoding: each
// Begin/End/Primitive/Array call writes or reads exactly one JSON
// value on its own line, using encoding/json for the actual
// marshalling rather than hand-rolling a grammar, unlike Binary and
// Ascii which speak the original's own wire shapes directly.
type jsonFormat struct {
	r *bufio.Reader
}

func (jsonFormat) Name() string { return "Json" }

func (f *jsonFormat) reader(w *Serialize) *bufio.Reader {
	if f.r == nil {
		f.r = bufio.NewReader(w.channel)
	}
	return f.r
}

type jsonEnvelope struct {
	Tag   string      `json:"tag"`
	Name  string      `json:"name,omitempty"`
	Type  string      `json:"type,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

func (f *jsonFormat) writeEnvelope(w *Serialize, e jsonEnvelope) error {
	b, err := json.Marshal(e)
	if err != nil {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/json: marshal", err)
	}
	b = append(b, '\n')
	if _, err := w.channel.Write(b); err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/json: write", err)
	}
	return nil
}

func (f *jsonFormat) readEnvelope(w *Serialize, e *jsonEnvelope) error {
	line, err := f.reader(w).ReadBytes('\n')
	if err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/json: read", err)
	}
	if err := json.Unmarshal(line, e); err != nil {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/json: unmarshal", err)
	}
	return nil
}

func (f *jsonFormat) WriteHeader(w *Serialize, h *Header) error {
	return f.writeEnvelope(w, jsonEnvelope{Tag: "header", Value: h})
}

func (f *jsonFormat) ReadHeader(w *Serialize, h *Header) error {
	var e jsonEnvelope
	e.Value = h
	return f.readEnvelope(w, &e)
}

func (f *jsonFormat) BeginType(w *Serialize, name, typeName string) error {
	return f.readOrWriteMarker(w, jsonEnvelope{Tag: "beginType", Name: name, Type: typeName})
}

func (f *jsonFormat) EndType(w *Serialize, name string) error {
	return f.readOrWriteMarker(w, jsonEnvelope{Tag: "endType", Name: name})
}

func (f *jsonFormat) readOrWriteMarker(w *Serialize, out jsonEnvelope) error {
	if w.mode == ModeRead {
		var in jsonEnvelope
		return f.readEnvelope(w, &in)
	}
	return f.writeEnvelope(w, out)
}

func (f *jsonFormat) BeginBaseType(w *Serialize, name, typeName string) error {
	return f.BeginType(w, name, typeName)
}

func (f *jsonFormat) EndBaseType(w *Serialize, name string) error {
	return f.EndType(w, name)
}

func (f *jsonFormat) WritePrimitive(w *Serialize, name string, v interface{}) error {
	return f.writeEnvelope(w, jsonEnvelope{Tag: "value", Name: name, Value: v})
}

func (f *jsonFormat) ReadPrimitive(w *Serialize, name string, ptr interface{}) error {
	e := jsonEnvelope{Value: ptr}
	return f.readEnvelope(w, &e)
}

func (f *jsonFormat) WriteArray(w *Serialize, name string, v interface{}) error {
	return f.writeEnvelope(w, jsonEnvelope{Tag: "array", Name: name, Value: v})
}

func (f *jsonFormat) ReadArray(w *Serialize, name string, ptr interface{}) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/json: ReadArray: not a slice pointer: "+name)
	}
	e := jsonEnvelope{Value: ptr}
	return f.readEnvelope(w, &e)
}

func (f *jsonFormat) BeginStructArray(w *Serialize, name, elementType string, length int) error {
	return f.readOrWriteMarker(w, jsonEnvelope{Tag: "beginStructArray", Name: name, Type: elementType, Value: length})
}

func (f *jsonFormat) StructArraySeparator(w *Serialize, name string, index, length int) error {
	return nil
}

func (f *jsonFormat) EndStructArray(w *Serialize, name string) error {
	return f.readOrWriteMarker(w, jsonEnvelope{Tag: "endStructArray", Name: name})
}
