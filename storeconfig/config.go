// Package storeconfig holds the tunables that are configuration rather
// than baked-in constants: the array-bunch promotion thresholds, the
// ?PO pivot threshold, and the MVCC transaction timeouts and scheduler
// tick period.
package storeconfig

import (
	"time"

	"github.com/c2h5oh/datasize"
)

// Config bundles every tunable this module exposes. Construct via
// Default() and override individual fields as needed; there is no
// env/file loader here — the core takes constructor arguments rather
// than reading flags itself, leaving flag/config parsing to a cmd/
// layer.
type Config struct {
	// SubjectBunchThreshold: subject-pinned array bunches promote to
	// hashed once they would exceed this size.
	SubjectBunchThreshold int
	// PredicateOrObjectBunchThreshold: predicate- and object-pinned
	// array bunches promote at this size instead.
	PredicateOrObjectBunchThreshold int
	// PivotThreshold is the O-bunch size above which a ?PO query
	// considers pivoting onto the P-bunch instead.
	PivotThreshold int

	// WriteTimeout bounds a WRITE transaction's lifetime.
	WriteTimeout time.Duration
	// ReadTimeout bounds a READ transaction's lifetime.
	ReadTimeout time.Duration
	// SchedulerTick is the Scheduler's tick period (e.g. 50ms).
	SchedulerTick time.Duration
}

// Default returns the literal defaults.
func Default() Config {
	return Config{
		SubjectBunchThreshold:            16,
		PredicateOrObjectBunchThreshold:  32,
		PivotThreshold:                   400,
		WriteTimeout:                     30 * time.Second,
		ReadTimeout:                      30 * time.Second,
		SchedulerTick:                    50 * time.Millisecond,
	}
}

// approxBytesPerTriple is a rough per-triple memory estimate: three
// bunch-map entries (one per pinned position) plus the dense FastHash
// entry/hashCode/deleted bookkeeping each one carries.
const approxBytesPerTriple = 96

// EstimatedFootprint reports a rough memory footprint for a store or
// generation holding n triples, for logging/diagnostics only — it is
// never consulted by any growth or promotion decision, which stay
// governed purely by SubjectBunchThreshold/PredicateOrObjectBunchThreshold
// and FastHash's own positions.length > 2*(size+1) trigger.
func EstimatedFootprint(n int) datasize.ByteSize {
	return datasize.ByteSize(n * approxBytesPerTriple)
}
