package wire

import (
	"io"
	"net/netip"
	"time"
)

// NetAddress defines information about a peer on the network including the time
// it was last seen, the services it supports, its IP address, and port.
type NetAddress struct {
	// Last time the address was seen. Only encoded outside version messages.
	Timestamp time.Time

	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// IP address of the peer. Decoding normalises it: sixteen zero bytes (::)
	// become the zero Addr and an IPv4-mapped address becomes its IPv4 form. Both
	// encode back to the same bytes.
	IP netip.Addr

	// Port the peer is using. Encoded in big endian, unlike every other field.
	Port uint16
}

// NewNetAddress returns a new NetAddress for addr with the given services and the
// current time as timestamp.
func NewNetAddress(addr netip.AddrPort, services ServiceFlag) *NetAddress {
	return &NetAddress{
		Timestamp: time.Unix(time.Now().Unix(), 0),
		Services:  services,
		IP:        addr.Addr(),
		Port:      addr.Port(),
	}
}

// AddrPort returns the address as a netip.AddrPort.
func (na *NetAddress) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(na.IP, na.Port)
}

// netAddressSize returns the encoded size of a NetAddress, 26 bytes without and
// 30 bytes with the timestamp.
func netAddressSize(ts bool) int {
	if ts {
		return 30
	}

	return 26
}

// readNetAddress reads an encoded NetAddress from r. The ts flag selects the
// timestamped form.
func readNetAddress(r io.Reader, na *NetAddress, ts bool) error {
	if ts {
		stamp, err := readUint32(r, "netaddress timestamp")
		if err != nil {
			return err
		}

		na.Timestamp = time.Unix(int64(stamp), 0)
	}

	services, err := readUint64(r, "netaddress services")
	if err != nil {
		return err
	}

	var ip [16]byte
	if err = readFull(r, ip[:], "netaddress ip"); err != nil {
		return err
	}

	port, err := readUint16BE(r, "netaddress port")
	if err != nil {
		return err
	}

	na.Services = ServiceFlag(services)
	na.Port = port

	// sixteen zero bytes are the unset address
	na.IP = netip.Addr{}
	if ip != [16]byte{} {
		na.IP = netip.AddrFrom16(ip).Unmap()
	}

	return nil
}

// writeNetAddress serializes a NetAddress to w. IPv4 addresses are written in
// their IPv4-mapped IPv6 form.
func writeNetAddress(w io.Writer, na *NetAddress, ts bool) error {
	if ts {
		if err := writeUint32(w, uint32(na.Timestamp.Unix())); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(na.Services)); err != nil {
		return err
	}

	var ip [16]byte
	if na.IP.IsValid() {
		ip = na.IP.As16()
	}

	if _, err := w.Write(ip[:]); err != nil {
		return err
	}

	return writeUint16BE(w, na.Port)
}
