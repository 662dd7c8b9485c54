// Package proto implements the memcached meta text protocol's wire
// encoding: a pipelined command builder and an incremental response
// parser. Neither type touches a socket; both are driven by a caller
// that owns the connection.
package proto

import "errors"

// Parse errors. The message text is part of the wire contract: callers
// may match on these exact sentinels with errors.Is, and tests assert
// on the literal strings.
var (
	ErrInvalidAfterH  = errors.New("invalid character after H")
	ErrInvalidAfterN  = errors.New("invalid character after N")
	ErrInvalidAfterE  = errors.New("invalid character after E")
	ErrNotVANumber    = errors.New("not a VA number")
	ErrInvalidCRState = errors.New("invalid CR state")
	ErrInvalidLFState = errors.New("invalid LF state")
)

// ErrUnexpectedByte covers bytes the meta protocol never produces in a
// response (a byte after a leading V other than A or E, or a mismatched
// literal inside the VERSION header such as "VEXxxx"). A leading byte
// other than V/H/N/E is discarded rather than reported. It is not part of the six
// contractual messages above but lets callers distinguish a genuinely
// foreign stream from one of the documented violations.
var ErrUnexpectedByte = errors.New("metacache: unexpected response byte")
