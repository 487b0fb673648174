// Package trace holds the catalogue of nets that make up a loaded waveform.
//
// A Trace maps hierarchical dotted net names (top.core(3).alu.result) to
// their transition series. Several names may share one series; these are
// aliases of the same underlying signal, as produced when one wire is
// visible in several scopes.
//
// The Source interface is the read-only view consumed by the search engine:
// it enumerates nets and reports the overall maximum timestamp. Whatever
// populates a trace (a VCD reader, the SQLite store, a YAML fixture) only
// needs to produce a Source.
//
// Name resolution is fuzzy: a query name matches any net whose full dotted
// path ends with it on a dot boundary. See MatchSuffix and Resolve.
package trace
