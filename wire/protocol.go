package wire

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the latest protocol version this package supports.
	ProtocolVersion uint32 = 70015

	// MessageHeaderSize is the number of bytes in a bitcoin message header.
	// Bitcoin network (magic) 4 bytes + command 12 bytes + payload length 4 bytes +
	// checksum 4 bytes.
	MessageHeaderSize = 24

	// CommandSize is the fixed size of all commands in the common bitcoin message
	// header.  Shorter commands must be zero padded.
	CommandSize = 12

	// MaxMessagePayload is the maximum bytes a message can be regardless of other
	// individual limits imposed by messages themselves.
	MaxMessagePayload = 32 * 1024 * 1024
)

// BitcoinNet represents which bitcoin network a message belongs to.
type BitcoinNet uint32

// Constants used to indicate the message bitcoin network.  They can also be
// used to seek to the next message when a stream's state is unknown. The
// values are the little endian reading of the bytes sent on the wire.
const (
	// MainNet represents the main bitcoin network (f9 be b4 d9 on the wire).
	MainNet BitcoinNet = 0xd9b4bef9

	// TestNet3 represents the test network, version 3 (0b 11 09 07 on the wire).
	TestNet3 BitcoinNet = 0x0709110b

	// RegTest represents the regression test network (fa bf b5 da on the wire).
	RegTest BitcoinNet = 0xdab5bffa
)

var bnStrings = map[BitcoinNet]string{
	MainNet:  "MainNet",
	TestNet3: "TestNet3",
	RegTest:  "RegTest",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown BitcoinNet (%d)", uint32(n))
}

// ServiceFlag identifies services supported by a bitcoin peer.
type ServiceFlag uint64

const (
	// SFNodeNetwork is a flag used to indicate a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeGetUTXO is a flag used to indicate a peer supports the
	// getutxos and utxos commands (BIP0064).
	SFNodeGetUTXO

	// SFNodeBloom is a flag used to indicate a peer supports bloom filtering.
	SFNodeBloom

	// SFNodeWitness is a flag used to indicate a peer supports blocks and
	// transactions including witness data (BIP0144).
	SFNodeWitness

	// SFNodeXthin is a flag used to indicate a peer supports xthin blocks.
	SFNodeXthin
)

// SFNodeNetworkLimited indicates a pruned peer serving only the last 288 blocks (BIP0159).
const SFNodeNetworkLimited ServiceFlag = 1 << 10

// Map of service flags back to their constant names for pretty printing.
var sfStrings = map[ServiceFlag]string{
	SFNodeNetwork:        "SFNodeNetwork",
	SFNodeGetUTXO:        "SFNodeGetUTXO",
	SFNodeBloom:          "SFNodeBloom",
	SFNodeWitness:        "SFNodeWitness",
	SFNodeXthin:          "SFNodeXthin",
	SFNodeNetworkLimited: "SFNodeNetworkLimited",
}

// orderedSFStrings is an ordered list of service flags from highest to
// lowest.
var orderedSFStrings = []ServiceFlag{
	SFNodeNetwork,
	SFNodeGetUTXO,
	SFNodeBloom,
	SFNodeWitness,
	SFNodeXthin,
	SFNodeNetworkLimited,
}

// String returns the ServiceFlag in human-readable form. Unknown bits are
// rendered in hex after the known names.
func (f ServiceFlag) String() string {
	if f == 0 {
		return "0x0"
	}

	s := make([]string, 0, len(orderedSFStrings)+1)

	for _, flag := range orderedSFStrings {
		if f&flag == flag {
			s = append(s, sfStrings[flag])
			f -= flag
		}
	}

	if f != 0 {
		s = append(s, "0x"+strconv.FormatUint(uint64(f), 16))
	}

	return strings.Join(s, "|")
}
