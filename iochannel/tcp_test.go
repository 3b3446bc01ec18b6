package iochannel_test

import (
	"net"
	"testing"

	"github.com/HRI-EU/gobos/iochannel"
)

func TestTcpLoopback(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	serverDone := make(chan []byte, 1)
	serverErr := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverErr <- err
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		if _, err := conn.Read(buf); err != nil {
			serverErr <- err
			return
		}
		serverDone <- buf
	}()

	client, err := iochannel.Open("Tcp://"+ln.Addr().String(), iochannel.ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-serverDone:
		if string(got) != "hello" {
			t.Errorf("got %q, want %q", got, "hello")
		}
	case err := <-serverErr:
		t.Fatal(err)
	}
}
