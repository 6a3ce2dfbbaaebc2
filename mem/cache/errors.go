package cache

import "errors"

// ErrConfig is returned when the cache geometry cannot be simulated.
var ErrConfig = errors.New("invalid cache configuration")

// ErrPolicy is returned for replacement policy tokens that are not recognized.
var ErrPolicy = errors.New("unknown replacement policy")
