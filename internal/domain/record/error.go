package record

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDecode            = errors.New("malformed record data")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("only the record owner can change its status")
	ErrAlreadyExists     = errors.New("record id already in use")
	ErrIndexAppend       = errors.New("record stored but not indexed")
	ErrInvalidData       = errors.New("invalid record data")
)
