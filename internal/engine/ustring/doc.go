// Package ustring provides String, a mutable, growable container of Unicode
// characters indexed by character rather than by byte.
//
// The characters live in a single contiguous buffer of char.Char values.
// Every position and length argument counts characters, so multi-byte
// UTF-8 content can be inserted, erased and replaced without ever splitting
// an encoding.
//
// Basic usage:
//
//	s := ustring.FromString("abcd")
//	_ = s.InsertString(2, "X")     // "abXcd"
//	_ = s.Erase(1, 2)              // "acd"
//	_ = s.ReplaceString(1, 1, "🦊") // "a🦊d"
//	s.Len()                        // 3
//	s.Size()                       // 7 (bytes + terminator)
//
// Storage:
//
// Capacity is counted in character slots. Growth multiplies the capacity by
// GrowthFactor until the request fits; Resize and ShrinkToFit reallocate to
// an exact size. A reallocation either completes or has not started, so a
// partially moved buffer is never observable.
//
// Errors:
//
// Position arguments outside the live range return a *RangeError that
// matches ErrOutOfRange with errors.Is. Validation always happens before
// any mutation; a failed call leaves the string untouched.
//
// Concurrency:
//
// A String owns its buffer exclusively and is not safe for concurrent use.
// Callers sharing one String between goroutines must serialize access.
package ustring
