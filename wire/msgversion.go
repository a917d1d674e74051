package wire

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in a
// version message (MsgVersion).
const MaxUserAgentLen = 256

// DefaultUserAgent for wire in the stack
const DefaultUserAgent = "/handshake:0.1.0/"

// MsgVersion implements the Message interface and represents a bitcoin version
// message. It is used for a peer to advertise itself as soon as an outbound
// connection is made. The remote peer then uses this information along with
// its own to negotiate. The remote peer must then respond with a version
// message of its own containing the negotiated values followed by a verack
// message (MsgVerAck). This exchange must take place before any further
// communication is allowed to proceed.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion int32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated. This is encoded as an int64 on the wire.
	Timestamp time.Time

	// Address of the remote peer.
	AddrRecv NetAddress

	// Address of the local peer.
	AddrFrom NetAddress

	// Unique value associated with message that is used to detect self
	// connections.
	Nonce uint64

	// The user agent that generated message. This is encoded as a varString
	// on the wire.
	UserAgent string

	// Last block seen by the generator of the version message.
	StartHeight int32

	// Announce transactions to the peer. Peers that omit the byte relay, so a
	// decoded message without it has Relay set.
	Relay bool
}

// NewMsgVersion returns a new bitcoin version message that conforms to the
// Message interface using the passed parameters and defaults for the remaining
// fields.
func NewMsgVersion(addrFrom, addrRecv *NetAddress, nonce uint64, startHeight int32) *MsgVersion {
	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrRecv:        *addrRecv,
		AddrFrom:        *addrFrom,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		StartHeight:     startHeight,
		Relay:           false,
	}
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// Bsvdecode decodes r using the bitcoin protocol encoding into the receiver.
// Bytes after the relay flag are ignored.
// This is part of the Message interface implementation.
func (msg *MsgVersion) Bsvdecode(r io.Reader, _ uint32) error {
	version, err := readUint32(r, "version protocol version")
	if err != nil {
		return err
	}

	msg.ProtocolVersion = int32(version)

	services, err := readUint64(r, "version services")
	if err != nil {
		return err
	}

	msg.Services = ServiceFlag(services)

	timestamp, err := readUint64(r, "version timestamp")
	if err != nil {
		return err
	}

	msg.Timestamp = time.Unix(int64(timestamp), 0)

	if err = readNetAddress(r, &msg.AddrRecv, false); err != nil {
		return err
	}

	if err = readNetAddress(r, &msg.AddrFrom, false); err != nil {
		return err
	}

	if msg.Nonce, err = readUint64(r, "version nonce"); err != nil {
		return err
	}

	if msg.UserAgent, err = ReadVarString(r); err != nil {
		return err
	}

	startHeight, err := readUint32(r, "version start height")
	if err != nil {
		return err
	}

	msg.StartHeight = int32(startHeight)

	// the relay flag is optional
	msg.Relay = true

	var relay [1]byte

	n, err := io.ReadFull(r, relay[:])
	switch {
	case n == 1:
		msg.Relay = relay[0] != 0x00
	case err != nil && err != io.EOF:
		return errors.NewWireTruncatedError("[MsgVersion.Bsvdecode] failed to read relay flag: %v", err.Error())
	}

	return nil
}

// BsvEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BsvEncode(w io.Writer, _ uint32) error {
	if len(msg.UserAgent) > MaxUserAgentLen {
		return errors.NewInvalidArgumentError("[MsgVersion.BsvEncode] user agent too long [len %d, max %d]", len(msg.UserAgent), MaxUserAgentLen)
	}

	var buf bytes.Buffer

	buf.Grow(int(msg.MaxPayloadLength(0)))

	// writes to a bytes.Buffer cannot fail
	_ = writeUint32(&buf, uint32(msg.ProtocolVersion))
	_ = writeUint64(&buf, uint64(msg.Services))
	_ = writeUint64(&buf, uint64(msg.Timestamp.Unix()))
	_ = writeNetAddress(&buf, &msg.AddrRecv, false)
	_ = writeNetAddress(&buf, &msg.AddrFrom, false)
	_ = writeUint64(&buf, msg.Nonce)
	_ = WriteVarString(&buf, msg.UserAgent)
	_ = writeUint32(&buf, uint32(msg.StartHeight))

	relay := byte(0x00)
	if msg.Relay {
		relay = 0x01
	}

	buf.WriteByte(relay)

	_, err := w.Write(buf.Bytes())

	return err
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgVersion) MaxPayloadLength(_ uint32) uint64 {
	// Protocol version 4 bytes + services 8 bytes + timestamp 8 bytes +
	// remote and local net addresses + nonce 8 bytes + length of user
	// agent (varInt) + max allowed useragent length + last block 4 bytes +
	// relay transactions flag 1 byte.
	return uint64(4 + 8 + 8 + (netAddressSize(false) * 2) + 8 + VarIntSerializeSize(MaxUserAgentLen) + MaxUserAgentLen + 4 + 1)
}

// String returns a short summary for log lines.
func (msg *MsgVersion) String() string {
	return fmt.Sprintf("version %d, services %s, user agent %q, start height %d", msg.ProtocolVersion, msg.Services, msg.UserAgent, msg.StartHeight)
}
