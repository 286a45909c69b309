// Package peloton is a database-kernel support library: a
// variable-length memory pool with reference-counted allocations, and
// the typed-value layer built on top of it. Together they form the
// substrate on which tuple storage, serialization and SQL expression
// evaluation rest.
//
// # Architecture
//
// The library is organized as small, focused packages:
//
//   - pkg/pool: a segregated free-list slab allocator. Every allocation
//     embeds an atomic reference count, so shallow tuple copies are a
//     single atomic increment.
//
//   - pkg/types: the tagged Value type, the immutable per-type handler
//     registry, and the serialization contracts between Values, byte
//     streams and fixed tuple slots.
//
//   - pkg/compression: compressors for serialized tuple streams.
//
//   - pkg/config, pkg/logger, pkg/metrics, pkg/errors: the ambient
//     configuration, structured logging, Prometheus metrics and typed
//     error plumbing shared by the kernel packages.
//
// # Quick Start
//
// Allocate a varlen payload, store a value in a tuple slot, and share
// it between tuples without copying:
//
//	import (
//	    "github.com/AndryLeon/peloton/pkg/pool"
//	    "github.com/AndryLeon/peloton/pkg/types"
//	)
//
//	p := pool.New()
//	defer p.Close()
//
//	v := types.GetVarcharValue("hello")
//	handler := types.GetInstance(types.Varchar).(*types.VarlenType)
//
//	slot := make([]byte, types.Varchar.Size())
//	_ = handler.SerializeToStorage(v, slot, p)
//
//	shared := make([]byte, types.Varchar.Size())
//	_ = handler.DoShallowCopy(shared, slot, p) // one atomic increment
//
//	handler.ReleaseStorage(shared, p)
//	handler.ReleaseStorage(slot, p)
//
// The cmd/peloton CLI exercises the same paths under load and reports
// pool diagnostics.
package peloton
