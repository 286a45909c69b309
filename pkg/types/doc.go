// Package types implements the typed-value layer of the peloton kernel:
// a tagged Value carrying a SQL type id and a payload, and a process-wide
// immutable registry of stateless type handlers that implement the
// per-type operation set (comparison, hashing, serialization, casting,
// copying).
//
// Fixed-width values (booleans, the integer family, decimals, timestamps,
// dates) inline their payload in the Value itself and in tuple storage.
// Variable-length values (VARCHAR, VARBINARY) carry a byte-slice view
// that may reference caller memory or a reference-counted allocation from
// a pool.VarlenPool; see VarlenType for the tuple-slot contract.
//
// SQL NULL is represented with per-type sentinel payloads and propagates
// through comparisons as a NULL BOOLEAN result rather than an error.
package types
