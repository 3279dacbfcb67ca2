package achievements

import "errors"

var (
	// ErrUnknownMetric marks a catalog entry referencing a metric no
	// evaluator is registered for. The entry is skipped at dispatch time
	// and rejected at catalog-load time.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrMissingDefinition means the periodic awarder could not resolve the
	// catalog definition for its slug. A configuration error: the run
	// aborts without touching the ledger.
	ErrMissingDefinition = errors.New("periodic achievement definition missing")
)
