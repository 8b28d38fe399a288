package network

import (
	"net"
	"net/netip"
	"sensorweb/internal/global"
	"strconv"
	"strings"
)

// Parses a group address, IPv6 first then IPv4. Anything unparsable falls back to the default group.
func ParseGroupAddr(text string) (group net.IP) {
	text = strings.TrimSpace(text)

	addr, err := netip.ParseAddr(text)
	if err == nil && addr.Zone() == "" {
		group = net.IP(addr.AsSlice())
		return
	}

	group = net.ParseIP(global.DefaultMulticastGroup)
	return
}

// Parses a UDP port. Anything outside 1-65535 falls back to the default port.
func ParsePort(text string) (port int) {
	port, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || port < 1 || port > 65535 {
		port = global.DefaultMulticastPort
	}
	return
}

// Whether the group needs an IPv6 socket
func IsIPv6(group net.IP) (v6 bool) {
	v6 = group.To4() == nil && group.To16() != nil
	return
}
