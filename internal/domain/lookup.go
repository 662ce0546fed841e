package domain

import (
	"fmt"
	"slices"
)

// ResultKind tags the active variant of a LookupResult.
type ResultKind string

const (
	ResultNotSearched ResultKind = "not_searched"
	ResultNotFound    ResultKind = "not_found"
	ResultFound       ResultKind = "found"
)

func (k ResultKind) String() string { return string(k) }

// LookupResult is the outcome of the latest lookup. Exactly one variant is
// active; a result is replaced wholesale and never modified in place.
type LookupResult struct {
	kind    ResultKind
	entries []WordEntry
	failure *LookupFailure
}

// NotSearched is the initial result of every session.
func NotSearched() LookupResult {
	return LookupResult{kind: ResultNotSearched}
}

// NotFound wraps the failure that produced it. failure may be nil.
func NotFound(failure *LookupFailure) LookupResult {
	return LookupResult{kind: ResultNotFound, failure: failure}
}

// Found copies entries so later mutation by the caller cannot leak in.
func Found(entries []WordEntry) LookupResult {
	return LookupResult{kind: ResultFound, entries: slices.Clone(entries)}
}

// Kind returns the active variant. The zero value reports ResultNotSearched.
func (r LookupResult) Kind() ResultKind {
	if r.kind == "" {
		return ResultNotSearched
	}
	return r.kind
}

// Entries returns the found entries, or nil for any other variant.
func (r LookupResult) Entries() []WordEntry { return r.entries }

// Failure returns the cause of a NotFound result, or nil.
func (r LookupResult) Failure() *LookupFailure { return r.failure }

// FailureKind distinguishes why a lookup produced no entries.
type FailureKind string

const (
	FailureNotFoundByService FailureKind = "not_found_by_service"
	FailureServiceError      FailureKind = "service_error"
	FailureNetworkError      FailureKind = "network_error"
	FailureParseError        FailureKind = "parse_error"
)

func (k FailureKind) String() string { return string(k) }

// LookupFailure is the typed cause behind a NotFound result.
type LookupFailure struct {
	Kind   FailureKind
	Status int
	Err    error
}

func (f *LookupFailure) Error() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("lookup: %s: %v", f.Kind, f.Err)
	case f.Status != 0:
		return fmt.Sprintf("lookup: %s: status %d", f.Kind, f.Status)
	default:
		return "lookup: " + string(f.Kind)
	}
}

func (f *LookupFailure) Unwrap() error {
	if f.Kind == FailureNotFoundByService && f.Err == nil {
		return ErrNotFound
	}
	return f.Err
}

// NewStatusFailure classifies a non-2xx HTTP status.
func NewStatusFailure(status int) *LookupFailure {
	if status == 404 {
		return &LookupFailure{Kind: FailureNotFoundByService, Status: status}
	}
	return &LookupFailure{Kind: FailureServiceError, Status: status}
}

// NewNetworkFailure wraps a transport error.
func NewNetworkFailure(err error) *LookupFailure {
	return &LookupFailure{Kind: FailureNetworkError, Err: err}
}

// NewParseFailure wraps a payload decoding error.
func NewParseFailure(err error) *LookupFailure {
	return &LookupFailure{Kind: FailureParseError, Err: err}
}
