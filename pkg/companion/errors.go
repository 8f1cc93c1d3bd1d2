package companion

import "errors"

var (
	// ErrNoSession is returned when an interaction is attempted without a
	// session.
	ErrNoSession = errors.New("companion: session is required")
	// ErrNoSource is returned by Load when neither a source nor a loader
	// fallback is configured.
	ErrNoSource = errors.New("companion: schema source is required")
)
