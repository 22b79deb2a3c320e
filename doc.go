// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ubjson implements a codec for the Universal Binary JSON (UBJSON)
draft-12 wire format.

 UBJSON Grammar

 Markers (single byte, ASCII):

 Z  Null
 T  Bool true
 F  Bool false
 i  int8             U  uint8
 I  int16            l  int32            L  int64
 d  float32          D  float64
 H  high-precision (decimal transported as a length-prefixed UTF-8 string)
 C  char (single ASCII byte)
 S  string (length-prefixed UTF-8)
 [  array start      ]  array end
 {  object start     }  object end
 $  fixed element type (typed container)
 #  element count (counted container)
 N  no-op, tolerated on input wherever a value is expected, never emitted

 Containers:

 array    ::= "[" value* "]"
            | "[" "#" length value*
            | "[" "$" type "#" length value*      (value has no marker byte)
 object   ::= "{" (key value)* "}"
            | "{" "#" length (key value)*
            | "{" "$" type "#" length (key value)* (value has no marker byte)
 key      ::= length_marker length utf8_bytes
 length   ::= the smallest integer marker ("i","U","I","l","L") that fits

 Examples:

 true                       -> "T"
 "ab"                       -> "S" "U" 0x02 "ab"
 decimal("-1.5")            -> "H" "U" 0x04 "-1.5"
 ["a","b"]                  -> "[" "S" "U" 0x01 "a" "S" "U" 0x01 "b" "]"
 {"a":1}                    -> "{" "U" 0x01 "a" "U" 0x01 "}"

Implementation notes:

 Width minimality. Every integer (whether a scalar value or a length prefix)
 is encoded in the narrowest marker that can hold it: U (0..255), i (-128..-1),
 I (-32768..32767), l (int32 range), L (int64 range), else the value escapes
 to H as a decimal literal.

 High precision. Values outside the signed 64-bit range, and any value the
 caller explicitly marks as a Decimal, travel as H: a length-prefixed decimal
 string parsed with arbitrary precision (see Decimal, in decimal.go).

 Cycle detection. Encoding a container that (directly or transitively)
 contains itself is an EncoderError; the same leaf container reachable
 through two different paths is fine and is encoded twice.

 Coercion. Go's native int/int8/int16/int32/int64/uint.../float32/float64/
 string/bool/[]byte/nil are accepted directly by EncodeToBytes and
 EncodeToSink and coerced to the
 matching Value kind; to avoid all coercion, construct Values directly with
 the constructors in value.go.
*/
package ubjson
