package pqueue_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/HRI-EU/gobos/pqueue"
	"github.com/HRI-EU/gobos/serialize"
)

type counter struct {
	N int32
}

func init() {
	pqueue.RegisterType("Counter", pqueue.Codec{
		Encode: func(s *serialize.Serialize, name string, v interface{}) error {
			c := v.(counter)
			if err := s.BeginType(name, "Counter"); err != nil {
				return err
			}
			if err := s.Primitive("n", &c.N); err != nil {
				return err
			}
			return s.EndType(name)
		},
		Decode: func(s *serialize.Serialize, name string) (interface{}, error) {
			var c counter
			if err := s.BeginType(name, "Counter"); err != nil {
				return nil, err
			}
			if err := s.Primitive("n", &c.N); err != nil {
				return nil, err
			}
			if err := s.EndType(name); err != nil {
				return nil, err
			}
			return c, nil
		},
	})
}

func TestPushPopValueThroughRegisteredCodec(t *testing.T) {
	q := pqueue.New(4)
	if err := q.Init("Counter", counter{}); err != nil {
		t.Fatal(err)
	}
	want := counter{N: 17}
	if err := q.PushValue("c", want); err != nil {
		t.Fatal(err)
	}
	got, err := q.PopValue("c")
	if err != nil {
		t.Fatal(err)
	}
	if diff := deep.Equal(got.(counter), want); diff != nil {
		t.Errorf("PopValue round-trip mismatch: %v", diff)
	}
}
