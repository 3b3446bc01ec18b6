// Command gobosdemo exercises iochannel, serialize, pqueue, and
// workqueue end-to-end in four independent steps: a File-backed Binary
// serialize round trip of a point, a PQueue push/pop of registered
// MyPoint values, a run of 20 WorkQueue tasks, and a loopback Tcp round
// trip of a network-byte-order uint32, the way the scenarios in the
// project's test suite exercise each package individually.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/HRI-EU/gobos/basetype"
	"github.com/HRI-EU/gobos/coreassert"
	"github.com/HRI-EU/gobos/corelog"
	"github.com/HRI-EU/gobos/iochannel"
	"github.com/HRI-EU/gobos/pqueue"
	"github.com/HRI-EU/gobos/serialize"
	"github.com/HRI-EU/gobos/workqueue"
)

func writePoint(s *serialize.Serialize, name string, p *basetype.Point2D) error {
	if err := s.BeginType(name, "MyPoint"); err != nil {
		return err
	}
	if err := s.Primitive("posX", &p.X); err != nil {
		return err
	}
	if err := s.Primitive("posY", &p.Y); err != nil {
		return err
	}
	return s.EndType(name)
}

func init() {
	pqueue.RegisterType("MyPoint", pqueue.Codec{
		Encode: func(s *serialize.Serialize, name string, v interface{}) error {
			p := v.(basetype.Point2D)
			return writePoint(s, name, &p)
		},
		Decode: func(s *serialize.Serialize, name string) (interface{}, error) {
			var p basetype.Point2D
			if err := writePoint(s, name, &p); err != nil {
				return nil, err
			}
			return p, nil
		},
	})
}

func fileRoundTrip(dir string) error {
	path := "File://" + filepath.Join(dir, "point.bin")

	wch, err := iochannel.Open(path, iochannel.ModeWrite|iochannel.ModeCreate|iochannel.ModeTruncate, iochannel.PermRW_U)
	if err != nil {
		return err
	}
	ws, err := serialize.Open(wch, "Binary", serialize.ModeWrite)
	if err != nil {
		return err
	}
	if err := writePoint(ws, "p", &basetype.Point2D{X: 5, Y: 5}); err != nil {
		return err
	}
	if err := wch.Close(); err != nil {
		return err
	}

	rch, err := iochannel.Open(path, iochannel.ModeRead)
	if err != nil {
		return err
	}
	rs, err := serialize.Open(rch, "Binary", serialize.ModeRead)
	if err != nil {
		return err
	}
	var got basetype.Point2D
	if err := writePoint(rs, "p", &got); err != nil {
		return err
	}
	coreassert.True(got.X == 5 && got.Y == 5, "round-tripped point mismatch:", got)
	corelog.Printf("file round-trip: %+v", got)
	return rch.Close()
}

func pqueueDemo() error {
	q := pqueue.New(4)
	if err := q.Init("MyPoint", basetype.Point2D{}); err != nil {
		return err
	}
	points := []basetype.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	for _, p := range points {
		if err := q.PushValue("p", p); err != nil {
			return err
		}
	}
	for range points {
		v, err := q.PopValue("p")
		if err != nil {
			return err
		}
		corelog.Printf("pqueue popped: %+v", v)
	}
	return nil
}

func workqueueDemo() error {
	q := workqueue.New(2, 4)
	tasks := make([]*workqueue.Task, 0, 20)
	for i := 0; i < 20; i++ {
		n := i
		tasks = append(tasks, q.Submit(func(instance, userData interface{}) error {
			corelog.Printf("workqueue task %d ran", n)
			return nil
		}, nil, nil, nil))
	}
	for _, t := range tasks {
		t.Wait()
	}
	return q.Close()
}

// tcpDemo opens a loopback TCP listener, accepts a connection, and
// exchanges a single network-byte-order uint32, mirroring scenario 5
// (Tcp://localhost:PORT with a 32-bit integer round trip).
func tcpDemo() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	defer ln.Close()

	received := make(chan uint32, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			errCh <- err
			return
		}
		defer conn.Close()
		var buf [4]byte
		if _, err := conn.Read(buf[:]); err != nil {
			errCh <- err
			return
		}
		v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		received <- v
	}()

	ch, err := iochannel.Open("Tcp://"+ln.Addr().String(), iochannel.ModeWrite)
	if err != nil {
		return err
	}
	defer ch.Close()

	const want = uint32(424242)
	payload := []byte{byte(want >> 24), byte(want >> 16), byte(want >> 8), byte(want)}
	if _, err := ch.Write(payload); err != nil {
		return err
	}

	select {
	case got := <-received:
		coreassert.True(got == want, "tcp round-trip mismatch:", got)
		corelog.Printf("tcp round-trip: %d", got)
	case err := <-errCh:
		return err
	}
	return nil
}

func main() {
	flag.Parse()

	dir, err := os.MkdirTemp("", "gobosdemo")
	coreassert.Nil(err)
	defer os.RemoveAll(dir)

	coreassert.Nil(fileRoundTrip(dir))
	coreassert.Nil(pqueueDemo())
	coreassert.Nil(workqueueDemo())
	coreassert.Nil(tcpDemo())

	fmt.Println("gobosdemo: all scenarios completed")
}
