package wire

import (
	"bytes"
	"io"

	"github.com/bitcoin-sv/handshake/errors"
)

// Commands used in bitcoin message headers which describe the type of message.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdSendHeaders = "sendheaders"
	CmdInv         = "inv"
)

// Message is an interface that describes a bitcoin message. A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	Bsvdecode(r io.Reader, pver uint32) error
	BsvEncode(w io.Writer, pver uint32) error
	Command() string
	MaxPayloadLength(pver uint32) uint64
}

// MessageHeader defines the header structure for all bitcoin protocol messages.
type MessageHeader struct {
	Net      BitcoinNet // 4 bytes
	Command  string     // 12 bytes
	Length   uint32     // 4 bytes
	Checksum [4]byte    // 4 bytes
}

// makeEmptyMessage creates a message of the appropriate concrete type based
// on the command. Commands without a dedicated type decode into MsgUnknown.
func makeEmptyMessage(command string) Message {
	switch command {
	case CmdVersion:
		return &MsgVersion{}
	case CmdVerAck:
		return &MsgVerAck{}
	default:
		return &MsgUnknown{command: command}
	}
}

// ValidateCommand checks that command fits the 12 byte header field and is
// plain ASCII.
func ValidateCommand(command string) error {
	if len(command) > CommandSize {
		return errors.NewWireInvalidCommandError("[ValidateCommand] command %q is %d bytes, the maximum is %d", command, len(command), CommandSize)
	}

	for i := 0; i < len(command); i++ {
		if command[i] == 0 || command[i] > 0x7f {
			return errors.NewWireInvalidCommandError("[ValidateCommand] command %q contains a non-ascii or NUL byte at %d", command, i)
		}
	}

	return nil
}

// EncodeMessage returns the complete wire encoding of msg for the given network:
// the 24 byte header followed by the payload.
func EncodeMessage(bsvnet BitcoinNet, msg Message) ([]byte, error) {
	command := msg.Command()
	if err := ValidateCommand(command); err != nil {
		return nil, err
	}

	var payload bytes.Buffer
	if err := msg.BsvEncode(&payload, ProtocolVersion); err != nil {
		return nil, err
	}

	if payload.Len() > MaxMessagePayload {
		return nil, errors.NewWirePayloadTooBigError("[EncodeMessage] %s payload is %d bytes, the maximum is %d", command, payload.Len(), MaxMessagePayload)
	}

	buf := make([]byte, 0, MessageHeaderSize+payload.Len())
	buf = littleEndian.AppendUint32(buf, uint32(bsvnet))

	var cmd [CommandSize]byte
	copy(cmd[:], command)
	buf = append(buf, cmd[:]...)

	buf = littleEndian.AppendUint32(buf, uint32(payload.Len()))

	checksum := Checksum(payload.Bytes())
	buf = append(buf, checksum[:]...)

	return append(buf, payload.Bytes()...), nil
}

// WriteMessage writes a bitcoin Message to w including the necessary header
// information, in a single Write call.
func WriteMessage(w io.Writer, bsvnet BitcoinNet, msg Message) error {
	buf, err := EncodeMessage(bsvnet, msg)
	if err != nil {
		return err
	}

	_, err = w.Write(buf)

	return err
}

// DecodeHeader parses the 24 byte message header in b. The magic must match
// bsvnet; the other fields are returned as read.
func DecodeHeader(b []byte, bsvnet BitcoinNet) (*MessageHeader, error) {
	if len(b) < MessageHeaderSize {
		return nil, errors.NewWireTruncatedError("[DecodeHeader] header is %d bytes, need %d", len(b), MessageHeaderSize)
	}

	hdr := &MessageHeader{
		Net:    BitcoinNet(littleEndian.Uint32(b[0:4])),
		Length: littleEndian.Uint32(b[16:20]),
	}

	if hdr.Net != bsvnet {
		return nil, errors.NewWireBadMagicError("[DecodeHeader] message from other network [%s], expected [%s]", hdr.Net, bsvnet)
	}

	// strip trailing zeros from command string
	command := b[4 : 4+CommandSize]
	if i := bytes.IndexByte(command, 0); i >= 0 {
		command = command[:i]
	}

	hdr.Command = string(command)
	copy(hdr.Checksum[:], b[20:24])

	return hdr, nil
}

// DecodePayload verifies and decodes the payload announced by hdr. Only the
// first hdr.Length bytes of payload are used.
func DecodePayload(hdr *MessageHeader, payload []byte) (Message, error) {
	if uint64(len(payload)) < uint64(hdr.Length) {
		return nil, errors.NewWireTruncatedError("[DecodePayload] %s payload is %d bytes, header declares %d", hdr.Command, len(payload), hdr.Length)
	}

	payload = payload[:hdr.Length]

	if checksum := Checksum(payload); checksum != hdr.Checksum {
		return nil, errors.NewWireChecksumMismatchError("[DecodePayload] %s payload checksum failed - header indicates %x, but actual checksum is %x", hdr.Command, hdr.Checksum, checksum)
	}

	msg := makeEmptyMessage(hdr.Command)
	if err := msg.Bsvdecode(bytes.NewReader(payload), ProtocolVersion); err != nil {
		return nil, err
	}

	return msg, nil
}

// ReadMessage reads, validates, and parses the next bitcoin Message from r for
// the provided bitcoin network. It returns the parsed Message and the raw
// payload bytes. Declared payloads above MaxMessagePayload are rejected before
// anything is allocated for them.
func ReadMessage(r io.Reader, bsvnet BitcoinNet) (Message, []byte, error) {
	var headerBytes [MessageHeaderSize]byte
	if _, err := io.ReadFull(r, headerBytes[:]); err != nil {
		return nil, nil, errors.NewWireTruncatedError("[ReadMessage] failed to read message header", err)
	}

	hdr, err := DecodeHeader(headerBytes[:], bsvnet)
	if err != nil {
		return nil, nil, err
	}

	if hdr.Length > MaxMessagePayload {
		return nil, nil, errors.NewWirePayloadTooBigError("[ReadMessage] %s declares a payload of %d bytes, the maximum is %d", hdr.Command, hdr.Length, MaxMessagePayload)
	}

	payload := make([]byte, hdr.Length)
	if _, err = io.ReadFull(r, payload); err != nil {
		return nil, nil, errors.NewWireTruncatedError("[ReadMessage] failed to read %s payload of %d bytes", hdr.Command, hdr.Length, err)
	}

	msg, err := DecodePayload(hdr, payload)
	if err != nil {
		return nil, payload, err
	}

	return msg, payload, nil
}
