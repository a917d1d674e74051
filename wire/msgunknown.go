package wire

import (
	"io"
)

// MsgUnknown carries any message whose command has no dedicated type. The
// payload is kept opaque.
type MsgUnknown struct {
	command string
	Payload []byte
}

// NewMsgUnknown returns a message for command with the given raw payload.
// Use it to send commands such as ping or sendheaders without a typed body.
func NewMsgUnknown(command string, payload []byte) *MsgUnknown {
	return &MsgUnknown{command: command, Payload: payload}
}

func (msg *MsgUnknown) Bsvdecode(r io.Reader, _ uint32) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	msg.Payload = payload

	return nil
}

func (msg *MsgUnknown) BsvEncode(w io.Writer, _ uint32) error {
	_, err := w.Write(msg.Payload)
	return err
}

func (msg *MsgUnknown) Command() string {
	return msg.command
}

func (msg *MsgUnknown) MaxPayloadLength(_ uint32) uint64 {
	return MaxMessagePayload
}
