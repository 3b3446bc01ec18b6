package serialize

import (
	"encoding/binary"
	"fmt"
	"io"
	"reflect"

	"github.com/HRI-EU/gobos/errors"
)

func init() {
	RegisterFormat("Binary", func() Format { return &binaryFormat{} })
}

// binaryFormat is the primary wire format, a compact network-byte-order
// (big-endian) encoding with no per-field markers: BeginType/EndType write nothing,
// since Go's struct layout (unlike the original's void* v-tables) is
// already known to both sides of a stream written and read by the same
// schema. It is grounded on Binary.c's raw fixed-width encoding and on
// encoding/binary's Read/Write helpers, which every numeric case below
// delegates to.
type binaryFormat struct{}

func (binaryFormat) Name() string { return "Binary" }

func (f binaryFormat) WriteHeader(w *Serialize, h *Header) error {
	if err := f.writeString(w, h.Magic); err != nil {
		return err
	}
	if err := f.writeString(w, h.Format); err != nil {
		return err
	}
	for _, v := range []int64{int64(h.MajorVersion), int64(h.MinorVersion), h.Sizes[0], h.Sizes[1], h.Sizes[2], h.Sizes[3]} {
		if err := binary.Write(w.channel, binary.BigEndian, v); err != nil {
			return errors.E(errors.SerializeTruncated, "serialize/binary: write header", err)
		}
	}
	return nil
}

func (f binaryFormat) ReadHeader(w *Serialize, h *Header) error {
	magic, err := f.readString(w)
	if err != nil {
		return err
	}
	format, err := f.readString(w)
	if err != nil {
		return err
	}
	var fields [6]int64
	for i := range fields {
		if err := binary.Read(w.channel, binary.BigEndian, &fields[i]); err != nil {
			return errors.E(errors.SerializeTruncated, "serialize/binary: read header", err)
		}
	}
	h.Magic = magic
	h.Format = format
	h.MajorVersion = int(fields[0])
	h.MinorVersion = int(fields[1])
	h.Sizes = [4]int64{fields[2], fields[3], fields[4], fields[5]}
	return nil
}

func (binaryFormat) BeginType(w *Serialize, name, typeName string) error    { return nil }
func (binaryFormat) EndType(w *Serialize, name string) error                { return nil }
func (binaryFormat) BeginBaseType(w *Serialize, name, typeName string) error { return nil }
func (binaryFormat) EndBaseType(w *Serialize, name string) error            { return nil }

func (f binaryFormat) WritePrimitive(w *Serialize, name string, v interface{}) error {
	if w.mode == ModeCalc {
		n, err := f.encodedSize(v)
		if err != nil {
			return err
		}
		_, err = w.channel.Write(make([]byte, n))
		return err
	}
	return f.writeValue(w, v)
}

func (f binaryFormat) ReadPrimitive(w *Serialize, name string, ptr interface{}) error {
	return f.readValue(w, ptr)
}

func (f binaryFormat) WriteArray(w *Serialize, name string, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/binary: WriteArray: not a slice: "+name)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := f.WritePrimitive(w, name, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (f binaryFormat) ReadArray(w *Serialize, name string, ptr interface{}) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.E(errors.SerializeUnexpectedPrimitive, "serialize/binary: ReadArray: not a slice pointer: "+name)
	}
	slice := rv.Elem()
	for i := 0; i < slice.Len(); i++ {
		if err := f.readValue(w, slice.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (f binaryFormat) BeginStructArray(w *Serialize, name, elementType string, length int) error {
	if w.mode != ModeRead {
		return binary.Write(w.channel, binary.BigEndian, int64(length))
	}
	var n int64
	if err := binary.Read(w.channel, binary.BigEndian, &n); err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/binary: BeginStructArray "+name, err)
	}
	if int(n) != length {
		return errors.E(errors.SerializeUnexpectedPrimitive, fmt.Sprintf("serialize/binary: struct array %s length %d != expected %d", name, n, length))
	}
	return nil
}

func (binaryFormat) StructArraySeparator(w *Serialize, name string, index, length int) error {
	return nil
}

func (binaryFormat) EndStructArray(w *Serialize, name string) error { return nil }

func (f binaryFormat) writeString(w *Serialize, s string) error {
	if err := binary.Write(w.channel, binary.BigEndian, uint32(len(s))); err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/binary: write string length", err)
	}
	if _, err := w.channel.Write([]byte(s)); err != nil {
		return errors.E(errors.SerializeTruncated, "serialize/binary: write string bytes", err)
	}
	return nil
}

func (f binaryFormat) readString(w *Serialize) (string, error) {
	var n uint32
	if err := binary.Read(w.channel, binary.BigEndian, &n); err != nil {
		return "", errors.E(errors.SerializeTruncated, "serialize/binary: read string length", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(w.channel, buf); err != nil {
		return "", errors.E(errors.SerializeTruncated, "serialize/binary: read string bytes", err)
	}
	return string(buf), nil
}

// writeValue collapses Char_serialize/Int_serialize/Float_serialize/...
// into one type switch over the primitive Go types they correspond to.
func (f binaryFormat) writeValue(w *Serialize, v interface{}) error {
	switch val := v.(type) {
	case string:
		return f.writeString(w, val)
	case bool:
		var b byte
		if val {
			b = 1
		}
		_, err := w.channel.Write([]byte{b})
		return f.wrapTruncated(err, "write bool")
	case int8, uint8, int16, uint16, int32, uint32, int64, uint64, float32, float64:
		return f.wrapTruncated(binary.Write(w.channel, binary.BigEndian, val), "write numeric")
	case int:
		return f.wrapTruncated(binary.Write(w.channel, binary.BigEndian, int64(val)), "write int")
	case uint:
		return f.wrapTruncated(binary.Write(w.channel, binary.BigEndian, uint64(val)), "write uint")
	default:
		return errors.E(errors.SerializeUnexpectedPrimitive, fmt.Sprintf("serialize/binary: unsupported primitive type %T", v))
	}
}

func (f binaryFormat) readValue(w *Serialize, ptr interface{}) error {
	switch val := ptr.(type) {
	case *string:
		s, err := f.readString(w)
		if err != nil {
			return err
		}
		*val = s
		return nil
	case *bool:
		var b [1]byte
		if _, err := io.ReadFull(w.channel, b[:]); err != nil {
			return f.wrapTruncated(err, "read bool")
		}
		*val = b[0] != 0
		return nil
	case *int8, *uint8, *int16, *uint16, *int32, *uint32, *int64, *uint64, *float32, *float64:
		return f.wrapTruncated(binary.Read(w.channel, binary.BigEndian, val), "read numeric")
	case *int:
		var v64 int64
		if err := binary.Read(w.channel, binary.BigEndian, &v64); err != nil {
			return f.wrapTruncated(err, "read int")
		}
		*val = int(v64)
		return nil
	case *uint:
		var v64 uint64
		if err := binary.Read(w.channel, binary.BigEndian, &v64); err != nil {
			return f.wrapTruncated(err, "read uint")
		}
		*val = uint(v64)
		return nil
	default:
		return errors.E(errors.SerializeUnexpectedPrimitive, fmt.Sprintf("serialize/binary: unsupported primitive pointer type %T", ptr))
	}
}

func (f binaryFormat) wrapTruncated(err error, what string) error {
	if err == nil {
		return nil
	}
	return errors.E(errors.SerializeTruncated, "serialize/binary: "+what, err)
}

// encodedSize reports how many bytes v would occupy on the wire,
// without actually encoding it, for ModeCalc's size-only pass
// (paired with an iochannel Calc channel via iochannel.CalcSize).
func (binaryFormat) encodedSize(v interface{}) (int, error) {
	switch val := v.(type) {
	case string:
		return 4 + len(val), nil
	case bool, int8, uint8:
		return 1, nil
	case int16, uint16:
		return 2, nil
	case int32, uint32, float32:
		return 4, nil
	case int64, uint64, float64, int, uint:
		return 8, nil
	default:
		return 0, errors.E(errors.SerializeUnexpectedPrimitive, fmt.Sprintf("serialize/binary: unsupported primitive type %T", v))
	}
}
