/*
Package wire implements the subset of the bitcoin wire protocol needed to
perform a version handshake.

Every message on the wire is a 24 byte header followed by a payload:

	magic     4 bytes  network identifier, see BitcoinNet
	command  12 bytes  ASCII, NUL padded
	length    4 bytes  payload length, little endian
	checksum  4 bytes  first 4 bytes of sha256d(payload)

Only version and verack have typed payloads. Any other command decodes into
MsgUnknown, which is a valid message and not an error. The codec is stateless
and safe for concurrent use.

Errors carry the ERR_WIRE_* codes of the errors package, so callers can test
for a category with errors.Is(err, errors.ErrWireChecksumMismatch).
*/
package wire
