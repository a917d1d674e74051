package wire

import (
	"encoding/binary"
	"io"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

var (
	littleEndian = binary.LittleEndian
	bigEndian    = binary.BigEndian
)

// lenReader is satisfied by readers that know how many bytes are left, such
// as *bytes.Reader. It lets length prefixed reads fail before allocating.
type lenReader interface {
	Len() int
}

// Checksum returns the first four bytes of sha256d(payload).
func Checksum(payload []byte) [4]byte {
	var sum [4]byte

	copy(sum[:], chainhash.DoubleHashB(payload)[:4])

	return sum
}

// readFull reads a payload field. The io error is not wrapped: a short payload is
// malformed data, not a broken stream.
func readFull(r io.Reader, b []byte, field string) error {
	if n, err := io.ReadFull(r, b); err != nil {
		return errors.NewWireTruncatedError("[wire] failed to read %s, got %d of %d bytes", field, n, len(b))
	}

	return nil
}

func readUint16BE(r io.Reader, field string) (uint16, error) {
	var b [2]byte
	if err := readFull(r, b[:], field); err != nil {
		return 0, err
	}

	return bigEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader, field string) (uint32, error) {
	var b [4]byte
	if err := readFull(r, b[:], field); err != nil {
		return 0, err
	}

	return littleEndian.Uint32(b[:]), nil
}

func readUint64(r io.Reader, field string) (uint64, error) {
	var b [8]byte
	if err := readFull(r, b[:], field); err != nil {
		return 0, err
	}

	return littleEndian.Uint64(b[:]), nil
}

func writeUint16BE(w io.Writer, v uint16) error {
	_, err := w.Write(bigEndian.AppendUint16(nil, v))
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	_, err := w.Write(littleEndian.AppendUint32(nil, v))
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	_, err := w.Write(littleEndian.AppendUint64(nil, v))
	return err
}

// ReadVarInt reads a variable length integer from r and returns it as a uint64.
// All four encodings (single byte, 0xfd, 0xfe and 0xff prefixed) are accepted.
func ReadVarInt(r io.Reader) (uint64, error) {
	var vi bt.VarInt

	if _, err := vi.ReadFrom(r); err != nil {
		return 0, errors.NewWireTruncatedError("[ReadVarInt] failed to read varint: %v", err.Error())
	}

	return uint64(vi), nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	_, err := w.Write(bt.VarInt(val).Bytes())
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	return len(bt.VarInt(val).Bytes())
}

// ReadVarString reads a variable length string from r. The bytes are kept as is;
// no character set is enforced. A declared length longer than what is left in r
// is reported as truncated data.
func ReadVarString(r io.Reader) (string, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}

	if lr, ok := r.(lenReader); ok && count > uint64(lr.Len()) {
		return "", errors.NewWireTruncatedError("[ReadVarString] declared length %d exceeds the %d bytes remaining", count, lr.Len())
	}

	if count > MaxMessagePayload {
		return "", errors.NewWirePayloadTooBigError("[ReadVarString] declared length %d is larger than the max message size %d", count, MaxMessagePayload)
	}

	buf := make([]byte, count)
	if err = readFull(r, buf, "varstr bytes"); err != nil {
		return "", err
	}

	return string(buf), nil
}

// WriteVarString serializes str to w as a variable length integer containing
// the length of the string followed by the bytes that represent the string
// itself.
func WriteVarString(w io.Writer, str string) error {
	if err := WriteVarInt(w, uint64(len(str))); err != nil {
		return err
	}

	_, err := io.WriteString(w, str)

	return err
}
