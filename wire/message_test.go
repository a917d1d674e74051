package wire

import (
	"bytes"
	"encoding/hex"
	"net/netip"
	"testing"
	"time"

	"github.com/bitcoin-sv/handshake/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVersion() *MsgVersion {
	msg := NewMsgVersion(
		NewNetAddress(netip.MustParseAddrPort("10.0.0.1:8333"), SFNodeNetwork),
		NewNetAddress(netip.MustParseAddrPort("[2001:db8::1]:18333"), SFNodeNetwork|SFNodeWitness),
		0x1122334455667788,
		812345,
	)
	msg.Services = SFNodeNetwork | SFNodeNetworkLimited
	msg.Timestamp = time.Unix(1700000000, 0)
	msg.Relay = true

	return msg
}

func TestVerAckEncoding(t *testing.T) {
	b, err := EncodeMessage(MainNet, NewMsgVerAck())
	require.NoError(t, err)

	expected, _ := hex.DecodeString("f9beb4d9" + "76657261636b000000000000" + "00000000" + "5df6e0e2")
	assert.Equal(t, expected, b)

	msg, payload, err := ReadMessage(bytes.NewReader(b), MainNet)
	require.NoError(t, err)
	assert.Empty(t, payload)
	assert.IsType(t, &MsgVerAck{}, msg)
}

func TestVersionRoundTrip(t *testing.T) {
	for _, bsvnet := range []BitcoinNet{MainNet, TestNet3, RegTest} {
		t.Run(bsvnet.String(), func(t *testing.T) {
			want := testVersion()

			var buf bytes.Buffer
			require.NoError(t, WriteMessage(&buf, bsvnet, want))

			encoded := buf.Bytes()
			assert.Equal(t, uint32(bsvnet), littleEndian.Uint32(encoded[0:4]))
			assert.Equal(t, len(encoded)-MessageHeaderSize, int(littleEndian.Uint32(encoded[16:20])))

			msg, _, err := ReadMessage(bytes.NewReader(encoded), bsvnet)
			require.NoError(t, err)

			got, ok := msg.(*MsgVersion)
			require.True(t, ok)

			assert.Equal(t, want.ProtocolVersion, got.ProtocolVersion)
			assert.Equal(t, want.Services, got.Services)
			assert.True(t, want.Timestamp.Equal(got.Timestamp))
			assert.Equal(t, want.Nonce, got.Nonce)
			assert.Equal(t, want.UserAgent, got.UserAgent)
			assert.Equal(t, want.StartHeight, got.StartHeight)
			assert.Equal(t, want.Relay, got.Relay)
			assert.Equal(t, want.AddrRecv.AddrPort(), got.AddrRecv.AddrPort())
			assert.Equal(t, want.AddrRecv.Services, got.AddrRecv.Services)
			assert.Equal(t, want.AddrFrom.AddrPort(), got.AddrFrom.AddrPort())
		})
	}
}

func TestVersionPayloadLayout(t *testing.T) {
	msg := testVersion()

	var buf bytes.Buffer
	require.NoError(t, msg.BsvEncode(&buf, ProtocolVersion))

	payload := buf.Bytes()

	// 4 + 8 + 8 + 26 + 26 + 8 + varstr + 4 + 1
	assert.Len(t, payload, 4+8+8+26+26+8+1+len(msg.UserAgent)+4+1)

	// receiver port is big endian, right after services and the 16 byte ip
	recvPort := payload[20+8+16 : 20+8+16+2]
	assert.Equal(t, []byte{0x47, 0x9d}, recvPort) // 18333

	// ipv4 sender address is ipv4-mapped
	fromIP := payload[46+8 : 46+8+16]
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 10, 0, 0, 1}, fromIP)
}

func TestVersionZeroAddresses(t *testing.T) {
	msg := NewMsgVersion(&NetAddress{}, &NetAddress{}, 1, 0)

	b, err := EncodeMessage(MainNet, msg)
	require.NoError(t, err)

	decoded, _, err := ReadMessage(bytes.NewReader(b), MainNet)
	require.NoError(t, err)

	got := decoded.(*MsgVersion)
	assert.False(t, got.AddrRecv.IP.IsValid())
	assert.Equal(t, uint16(0), got.AddrFrom.Port)
}

func TestVersionWithoutRelayByte(t *testing.T) {
	msg := testVersion()
	msg.Relay = false

	var buf bytes.Buffer
	require.NoError(t, msg.BsvEncode(&buf, ProtocolVersion))

	withoutRelay := buf.Bytes()[:buf.Len()-1]

	got := &MsgVersion{}
	require.NoError(t, got.Bsvdecode(bytes.NewReader(withoutRelay), ProtocolVersion))
	assert.True(t, got.Relay)
	assert.Equal(t, msg.StartHeight, got.StartHeight)
}

func TestVersionTrailingBytesIgnored(t *testing.T) {
	msg := testVersion()

	var buf bytes.Buffer
	require.NoError(t, msg.BsvEncode(&buf, ProtocolVersion))
	buf.Write([]byte{0xde, 0xad, 0xbe, 0xef})

	got := &MsgVersion{}
	require.NoError(t, got.Bsvdecode(bytes.NewReader(buf.Bytes()), ProtocolVersion))
	assert.Equal(t, msg.Nonce, got.Nonce)
}

func TestVersionUserAgentTooLong(t *testing.T) {
	msg := testVersion()
	msg.UserAgent = string(bytes.Repeat([]byte{'a'}, MaxUserAgentLen+1))

	_, err := EncodeMessage(MainNet, msg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestChecksumDetectsEveryBitFlip(t *testing.T) {
	b, err := EncodeMessage(MainNet, testVersion())
	require.NoError(t, err)

	hdr, err := DecodeHeader(b[:MessageHeaderSize], MainNet)
	require.NoError(t, err)

	payload := b[MessageHeaderSize:]

	for i := 0; i < len(payload)*8; i++ {
		flipped := bytes.Clone(payload)
		flipped[i/8] ^= 1 << (i % 8)

		_, err = DecodePayload(hdr, flipped)
		require.Error(t, err, "bit %d", i)
		require.True(t, errors.Is(err, errors.ErrWireChecksumMismatch), "bit %d: %v", i, err)
	}
}

func TestBadMagic(t *testing.T) {
	b, err := EncodeMessage(MainNet, NewMsgVerAck())
	require.NoError(t, err)

	_, err = DecodeHeader(b, TestNet3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWireBadMagic))

	_, _, err = ReadMessage(bytes.NewReader(b), RegTest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWireBadMagic))
}

func TestTruncatedInput(t *testing.T) {
	b, err := EncodeMessage(MainNet, testVersion())
	require.NoError(t, err)

	for i := 0; i < len(b); i++ {
		_, _, err = ReadMessage(bytes.NewReader(b[:i]), MainNet)
		require.Error(t, err, "prefix of %d bytes", i)
		require.True(t, errors.Is(err, errors.ErrWireTruncated), "prefix of %d bytes: %v", i, err)
	}

	_, err = DecodeHeader(b[:MessageHeaderSize-1], MainNet)
	assert.True(t, errors.Is(err, errors.ErrWireTruncated))

	hdr, err := DecodeHeader(b, MainNet)
	require.NoError(t, err)

	_, err = DecodePayload(hdr, b[MessageHeaderSize:len(b)-1])
	assert.True(t, errors.Is(err, errors.ErrWireTruncated))
}

func TestTruncatedVersionFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testVersion().BsvEncode(&buf, ProtocolVersion))

	payload := buf.Bytes()

	// every cut before the start height is an error; the relay byte is optional
	for i := 0; i < len(payload)-1; i++ {
		err := (&MsgVersion{}).Bsvdecode(bytes.NewReader(payload[:i]), ProtocolVersion)
		require.Error(t, err, "cut at %d", i)
		require.True(t, errors.Is(err, errors.ErrWireTruncated), "cut at %d: %v", i, err)
	}
}

func TestUnknownCommand(t *testing.T) {
	ping := NewMsgUnknown(CmdPing, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	b, err := EncodeMessage(MainNet, ping)
	require.NoError(t, err)

	msg, payload, err := ReadMessage(bytes.NewReader(b), MainNet)
	require.NoError(t, err)

	unknown, ok := msg.(*MsgUnknown)
	require.True(t, ok)
	assert.Equal(t, CmdPing, unknown.Command())
	assert.Equal(t, ping.Payload, unknown.Payload)
	assert.Equal(t, ping.Payload, payload)
}

func TestCommandPadding(t *testing.T) {
	b, err := EncodeMessage(MainNet, NewMsgUnknown(CmdSendHeaders, nil))
	require.NoError(t, err)

	assert.Equal(t, []byte("sendheaders\x00"), b[4:16])

	hdr, err := DecodeHeader(b, MainNet)
	require.NoError(t, err)
	assert.Equal(t, CmdSendHeaders, hdr.Command)
	assert.Equal(t, uint32(0), hdr.Length)
}

func TestInvalidCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"too long", "thirteenchars"},
		{"non ascii", "vérack"},
		{"embedded nul", "ver\x00ack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeMessage(MainNet, NewMsgUnknown(tt.command, nil))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrWireInvalidCommand))
		})
	}

	require.NoError(t, ValidateCommand("twelve_chars"))
}

func TestPayloadTooBig(t *testing.T) {
	t.Run("declared", func(t *testing.T) {
		hdr := make([]byte, MessageHeaderSize)
		littleEndian.PutUint32(hdr[0:4], uint32(MainNet))
		copy(hdr[4:], CmdInv)
		littleEndian.PutUint32(hdr[16:20], MaxMessagePayload+1)

		_, _, err := ReadMessage(bytes.NewReader(hdr), MainNet)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrWirePayloadTooBig))
	})

	t.Run("encoded", func(t *testing.T) {
		_, err := EncodeMessage(MainNet, NewMsgUnknown(CmdInv, make([]byte, MaxMessagePayload+1)))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrWirePayloadTooBig))
	})
}

func TestDecodePayloadUsesDeclaredLength(t *testing.T) {
	b, err := EncodeMessage(MainNet, NewMsgVerAck())
	require.NoError(t, err)

	hdr, err := DecodeHeader(b, MainNet)
	require.NoError(t, err)

	// bytes beyond the declared length belong to the next message
	msg, err := DecodePayload(hdr, []byte{0xaa, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, CmdVerAck, msg.Command())
}

func TestServiceFlagString(t *testing.T) {
	tests := []struct {
		flag     ServiceFlag
		expected string
	}{
		{0, "0x0"},
		{SFNodeNetwork, "SFNodeNetwork"},
		{SFNodeNetwork | SFNodeWitness, "SFNodeNetwork|SFNodeWitness"},
		{SFNodeNetworkLimited, "SFNodeNetworkLimited"},
		{SFNodeBloom | 0x800, "SFNodeBloom|0x800"},
		{0x0409, "SFNodeNetwork|SFNodeWitness|SFNodeNetworkLimited"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.flag.String())
	}
}

func TestBitcoinNetString(t *testing.T) {
	assert.Equal(t, "MainNet", MainNet.String())
	assert.Equal(t, "TestNet3", TestNet3.String())
	assert.Equal(t, "RegTest", RegTest.String())
	assert.Equal(t, "Unknown BitcoinNet (1)", BitcoinNet(1).String())
}
