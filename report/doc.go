// Package report serializes a finished gap table into CSV artifacts and
// an optional self-contained HTML report, and hands the bytes to an
// archive store. The core computation performs no file IO itself; this
// package is the boundary where results become artifacts.
package report
