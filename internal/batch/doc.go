// Package batch prices a list of named scenarios concurrently.
//
// Scenarios are read from a YAML (or JSON) file, fanned out over a bounded
// errgroup and returned in input order. A scenario that fails validation is
// reported on its own row; the rest of the batch still runs.
package batch
