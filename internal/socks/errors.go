package socks

import "errors"

// These are sentinel values rather than typed errors since callers only
// ever need to branch on "which reply code do I send", not decode
// structured fields.
var (
	// ErrBadVersion is a ClientProtocolError: the client did not speak
	// SOCKS5.
	ErrBadVersion = errors.New("socks: unsupported protocol version")

	// ErrNoAcceptableMethod is a ClientProtocolError: the client did not
	// offer the no-auth method.
	ErrNoAcceptableMethod = errors.New("socks: no acceptable auth method")

	// ErrUnsupportedCommand is a ClientProtocolError: only CONNECT is
	// implemented.
	ErrUnsupportedCommand = errors.New("socks: unsupported command")

	// ErrUnsupportedAddressType is a ClientProtocolError, also used for
	// the explicit IPv6 non-goal.
	ErrUnsupportedAddressType = errors.New("socks: unsupported address type")

	// ErrHostUnreachable is an UpstreamDialError surfaced after the
	// fallback loop exhausts every candidate interface.
	ErrHostUnreachable = errors.New("socks: host unreachable via any interface")
)

// replyCode is the one-byte SOCKS5 reply field (RFC 1928 §6).
type replyCode byte

const (
	replySucceeded       replyCode = 0x00
	replyHostUnreachable replyCode = 0x04
)

const (
	socksVersion byte = 0x05

	cmdConnect byte = 0x01

	atypIPv4   byte = 0x01
	atypDomain byte = 0x03
	atypIPv6   byte = 0x04

	methodNoAuth byte = 0x00
)
