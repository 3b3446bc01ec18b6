package iochannel_test

import (
	"io"
	"testing"

	"github.com/HRI-EU/gobos/iochannel"
)

func TestNullChannel(t *testing.T) {
	c, err := iochannel.Open("Null://", iochannel.ModeRead|iochannel.ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	n, err := c.Write([]byte("discarded"))
	if err != nil || n != len("discarded") {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if _, err := c.Read(make([]byte, 4)); err != io.EOF {
		t.Errorf("got %v, want io.EOF", err)
	}
}

func TestCalcChannel(t *testing.T) {
	c, err := iochannel.Open("Calc://", iochannel.ModeWrite)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	total := 0
	for _, s := range []string{"abc", "de", "fghij"} {
		n, err := c.Write([]byte(s))
		if err != nil {
			t.Fatal(err)
		}
		total += n
	}
	if got := iochannel.CalcSize(c); got != int64(total) {
		t.Errorf("CalcSize() = %d, want %d", got, total)
	}
}
