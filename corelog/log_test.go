// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package corelog_test

import (
	"os"
	"testing"

	"github.com/HRI-EU/gobos/corelog"
)

type testOutputter struct {
	level    corelog.Level
	messages map[corelog.Level][]string
}

func newTestOutputter(level corelog.Level) *testOutputter {
	return &testOutputter{level, make(map[corelog.Level][]string)}
}

func (t *testOutputter) Empty() bool {
	for _, m := range t.messages {
		if len(m) != 0 {
			return false
		}
	}
	return true
}

func (t *testOutputter) Next(level corelog.Level) string {
	if len(t.messages[level]) == 0 {
		return ""
	}
	var m string
	m, t.messages[level] = t.messages[level][0], t.messages[level][1:]
	return m
}

func (t *testOutputter) Level() corelog.Level {
	return t.level
}

func (t *testOutputter) Output(calldepth int, level corelog.Level, s string) error {
	t.messages[level] = append(t.messages[level], s)
	return nil
}

func TestLog(t *testing.T) {
	out := newTestOutputter(corelog.Info)
	defer corelog.SetOutputter(corelog.SetOutputter(out))
	corelog.Printf("hello %q", "world")
	if got, want := out.Next(corelog.Info), `hello "world"`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	corelog.Error.Print(1, 2, 3)
	if got, want := out.Next(corelog.Error), "1 2 3"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	corelog.Debug.Print("x")
	if got, want := out.Next(corelog.Debug), ""; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if !out.Empty() {
		t.Error("extra messages")
	}
}

func Example_default() {
	corelog.SetOutput(os.Stdout)
	corelog.SetFlags(0)
	corelog.Print("hello, world!")
	corelog.Error.Print("hello from error")
	corelog.Debug.Print("invisible")

	// Output:
	// hello, world!
	// hello from error
}
