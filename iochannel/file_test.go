package iochannel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HRI-EU/gobos/iochannel"
)

func TestFileWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")

	w, err := iochannel.Open("File://"+path, iochannel.ModeWrite|iochannel.ModeCreate|iochannel.ModeTruncate)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("hello, channel")
	if n, err := w.Write(want); err != nil || n != len(want) {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := iochannel.Open("File://"+path, iochannel.ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got := make([]byte, len(want))
	if _, err := r.Read(got); err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileOpenNonexistent(t *testing.T) {
	_, err := iochannel.Open("File:///does/not/exist/at/all", iochannel.ModeRead)
	if err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
}

func TestFileBadMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := iochannel.Open("File://"+path, iochannel.ModeRead)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, err := c.Write([]byte("y")); err == nil {
		t.Fatal("expected write on a read-only channel to fail")
	}
	// The failed write must stick: subsequent reads see the same error.
	if _, err := c.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected the sticky error to surface on the next call")
	}
}

func TestUnknownScheme(t *testing.T) {
	if _, err := iochannel.Open("Bogus://x", iochannel.ModeRead); err == nil {
		t.Fatal("expected an error for an unregistered scheme")
	}
}

func TestMalformedURI(t *testing.T) {
	if _, err := iochannel.Open("not-a-uri", iochannel.ModeRead); err == nil {
		t.Fatal("expected an error for a URI without \"://\"")
	}
}
