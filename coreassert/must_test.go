// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package coreassert_test

import (
	"errors"
	"fmt"

	"github.com/HRI-EU/gobos/coreassert"
)

func Example() {
	coreassert.Func = func(v ...interface{}) {
		fmt.Print(v...)
		fmt.Print("\n")
	}

	coreassert.Nil(errors.New("unexpected condition"))
	coreassert.Nil(nil)
	coreassert.Nil(errors.New("some error"))
	coreassert.Nil(errors.New("i/o error"), "reading file")

	coreassert.True(false)
	coreassert.True(true, "something happened")
	coreassert.True(false, "a condition failed")

	// Output:
	// unexpected condition
	// some error
	// reading file: i/o error
	// coreassert: assertion failed
	// a condition failed
}
