// Package kjson implements kJSON, a data interchange format that extends
// JSON with arbitrary-precision integers, 128-bit decimals, UUIDs,
// nanosecond-precision instants, ISO-8601 durations, and binary blobs,
// while accepting a relaxed JSON5-like surface syntax (comments, unquoted
// identifier keys, trailing commas, mixed string quoting).
//
// The textual form is kJSON; the compact, self-describing binary form is
// kJSONB. Both forms decode to and encode from the same in-memory Value
// tree defined in this package.
package kjson
