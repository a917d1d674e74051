package errors

var (
	ErrUnknown           = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument   = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound          = New(ERR_NOT_FOUND, "not found")
	ErrProcessing        = New(ERR_PROCESSING, "error processing")
	ErrConfiguration     = New(ERR_CONFIGURATION, "configuration error")
	ErrContext           = New(ERR_CONTEXT, "context error")
	ErrContextCanceled   = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError             = New(ERR_ERROR, "generic error")

	ErrWireBadMagic         = New(ERR_WIRE_BAD_MAGIC, "bad network magic")
	ErrWireChecksumMismatch = New(ERR_WIRE_CHECKSUM_MISMATCH, "payload checksum mismatch")
	ErrWireTruncated        = New(ERR_WIRE_TRUNCATED, "truncated data")
	ErrWirePayloadTooBig    = New(ERR_WIRE_PAYLOAD_TOO_BIG, "payload too big")
	ErrWireInvalidCommand   = New(ERR_WIRE_INVALID_COMMAND, "invalid command name")

	ErrPeerConnect        = New(ERR_PEER_CONNECT, "connection error")
	ErrPeerIO             = New(ERR_PEER_IO, "i/o error")
	ErrPeerDecode         = New(ERR_PEER_DECODE, "malformed message")
	ErrPeerProtocolOrder  = New(ERR_PEER_PROTOCOL_ORDER, "unexpected command")
	ErrPeerTimeout        = New(ERR_PEER_TIMEOUT, "timeout")
	ErrPeerSelfConnection = New(ERR_PEER_SELF_CONNECTION, "connected to self")
	ErrPeerInternal       = New(ERR_PEER_INTERNAL, "internal error")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}
func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}
func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}
func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}
func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}
func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}
func NewContextError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT, message, params...)
}
func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}
func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}
func NewWireBadMagicError(message string, params ...interface{}) error {
	return New(ERR_WIRE_BAD_MAGIC, message, params...)
}
func NewWireChecksumMismatchError(message string, params ...interface{}) error {
	return New(ERR_WIRE_CHECKSUM_MISMATCH, message, params...)
}
func NewWireTruncatedError(message string, params ...interface{}) error {
	return New(ERR_WIRE_TRUNCATED, message, params...)
}
func NewWirePayloadTooBigError(message string, params ...interface{}) error {
	return New(ERR_WIRE_PAYLOAD_TOO_BIG, message, params...)
}
func NewWireInvalidCommandError(message string, params ...interface{}) error {
	return New(ERR_WIRE_INVALID_COMMAND, message, params...)
}
func NewPeerConnectError(message string, params ...interface{}) error {
	return New(ERR_PEER_CONNECT, message, params...)
}
func NewPeerIOError(message string, params ...interface{}) error {
	return New(ERR_PEER_IO, message, params...)
}
func NewPeerDecodeError(message string, params ...interface{}) error {
	return New(ERR_PEER_DECODE, message, params...)
}
func NewPeerProtocolOrderError(message string, params ...interface{}) error {
	return New(ERR_PEER_PROTOCOL_ORDER, message, params...)
}
func NewPeerTimeoutError(message string, params ...interface{}) error {
	return New(ERR_PEER_TIMEOUT, message, params...)
}
func NewPeerSelfConnectionError(message string, params ...interface{}) error {
	return New(ERR_PEER_SELF_CONNECTION, message, params...)
}
func NewPeerInternalError(message string, params ...interface{}) error {
	return New(ERR_PEER_INTERNAL, message, params...)
}
