// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package ubjson

import "io"

// Sink is anywhere an encoded document's bytes can be written. io.Writer
// satisfies it directly; the codec makes no assumption about buffering.
type Sink = io.Writer

// Source is anywhere an encoded document's bytes can be read from.
// io.Reader satisfies it directly.
type Source = io.Reader
