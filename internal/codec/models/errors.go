package models

import "errors"

var (
	ErrFormat           = errors.New("invalid stream format")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrInvalidCode      = errors.New("invalid huffman code")
	ErrInvalidDistance  = errors.New("invalid back-reference distance")
	ErrUnexpectedEOS    = errors.New("unexpected end of stream")
	ErrUnsupported      = errors.New("unsupported feature")
)
