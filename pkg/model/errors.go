package model

import "errors"

// ErrInvalidParameter is returned by the generator when its parameters cannot produce a well-formed instance
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrMalformedInstance is returned whenever an instance breaks one of its invariants. Solvers check it before any search begins
var ErrMalformedInstance = errors.New("malformed instance")

// ErrSearchExhausted is returned when no valid split with at most Types cuts was found, or when the search budget ran out first.
// For well-formed instances it signals a defect rather than an unsolvable instance
var ErrSearchExhausted = errors.New("search exhausted")
