package errors

import "strconv"

// ERR is the numeric category of an Error.
type ERR int32

//nolint:revive,stylecheck // upper case names are kept in line with the rest of the error codes
const (
	ERR_UNKNOWN            ERR = 0
	ERR_INVALID_ARGUMENT   ERR = 1
	ERR_THRESHOLD_EXCEEDED ERR = 2
	ERR_NOT_FOUND          ERR = 3
	ERR_PROCESSING         ERR = 4
	ERR_CONFIGURATION      ERR = 5
	ERR_CONTEXT            ERR = 6
	ERR_CONTEXT_CANCELED   ERR = 7
	ERR_ERROR              ERR = 9

	// wire codec
	ERR_WIRE_BAD_MAGIC         ERR = 20
	ERR_WIRE_CHECKSUM_MISMATCH ERR = 21
	ERR_WIRE_TRUNCATED         ERR = 22
	ERR_WIRE_PAYLOAD_TOO_BIG   ERR = 23
	ERR_WIRE_INVALID_COMMAND   ERR = 24

	// peer handshake
	ERR_PEER_CONNECT         ERR = 40
	ERR_PEER_IO              ERR = 41
	ERR_PEER_DECODE          ERR = 42
	ERR_PEER_PROTOCOL_ORDER  ERR = 43
	ERR_PEER_TIMEOUT         ERR = 44
	ERR_PEER_SELF_CONNECTION ERR = 45
	ERR_PEER_INTERNAL        ERR = 46
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "THRESHOLD_EXCEEDED",
	3:  "NOT_FOUND",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	6:  "CONTEXT",
	7:  "CONTEXT_CANCELED",
	9:  "ERROR",
	20: "WIRE_BAD_MAGIC",
	21: "WIRE_CHECKSUM_MISMATCH",
	22: "WIRE_TRUNCATED",
	23: "WIRE_PAYLOAD_TOO_BIG",
	24: "WIRE_INVALID_COMMAND",
	40: "PEER_CONNECT",
	41: "PEER_IO",
	42: "PEER_DECODE",
	43: "PEER_PROTOCOL_ORDER",
	44: "PEER_TIMEOUT",
	45: "PEER_SELF_CONNECTION",
	46: "PEER_INTERNAL",
}

var ERR_value = func() map[string]int32 {
	m := make(map[string]int32, len(ERR_name))
	for k, v := range ERR_name {
		m[v] = k
	}

	return m
}()

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}
