package catalog

import (
	"errors"
	"time"
)

// DefaultTimeout bounds a single call to the catalog store.
const DefaultTimeout = 10 * time.Second

// ErrDataServiceUnavailable marks a failed or timed-out call to the catalog store.
var ErrDataServiceUnavailable = errors.New("catalog data service unavailable")

// Reporter receives data-service failures that were degraded instead of returned.
type Reporter func(op string, err error)
