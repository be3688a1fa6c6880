package domain

import "errors"

// Name errors. These surface from FromText, Decode, and IterContext.
var (
	ErrLabelTooLong       = errors.New("label exceeds 63 bytes")
	ErrNameTooLong        = errors.New("encoded name exceeds 255 bytes")
	ErrTooManyLabels      = errors.New("name exceeds 127 labels")
	ErrInvalidLabelHeader = errors.New("reserved label header bits")
	ErrInvalidPointer     = errors.New("compression pointer does not point strictly backward")
	ErrNoRootLabel        = errors.New("name missing terminating root label")
	ErrInvalidName        = errors.New("invalid domain name")
	ErrWildcardNotFirst   = errors.New("wildcard label is not the leftmost label")
	ErrWildcardNotAlone   = errors.New("wildcard label must be the entire label")
	ErrNotASubdomain      = errors.New("name is not a subdomain of the given origin")

	// ErrNotEnoughBytes is returned by the Buffer reader when a take would run
	// past the end of the underlying slice.
	ErrNotEnoughBytes = errors.New("not enough bytes remaining in buffer")
	// ErrTruncatedMessage is returned by the message encoder when the
	// encoded message would not fit the writer's capacity.
	ErrTruncatedMessage = errors.New("message does not fit in the available buffer")
)

// Record errors.
var (
	ErrInvalidARecord       = errors.New("A record rdata must be at least 4 bytes")
	ErrInvalidAAAARecord    = errors.New("AAAA record rdata must be at least 16 bytes")
	ErrInvalidMXRecord      = errors.New("MX record rdata must be at least 3 bytes")
	ErrInvalidType          = errors.New("unrecognized or disallowed RRType")
	ErrInvalidClass         = errors.New("unrecognized or disallowed RRClass")
	ErrEncodeNotImplemented = errors.New("rdata encoder not implemented for this type")
)

// NameTree errors.
var (
	ErrDuplicateValue = errors.New("node already has a value for this key")
)

// Zone errors.
var (
	ErrQueryError = errors.New("zone backend cannot answer this class/type")
	ErrNoDomain   = errors.New("name is not served by any configured zone")
)
