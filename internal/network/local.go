package network

import (
	"fmt"
	"net"
	"strings"
)

// Resolves the interface used for the group membership.
// Accepts an interface name ("eth0") or one of its addresses. Empty selects the kernel default (nil).
func LookupInterface(ident string) (iface *net.Interface, err error) {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return
	}

	iface, err = net.InterfaceByName(ident)
	if err == nil {
		return
	}

	iface, err = getInterfaceForAddress(ident)
	if err != nil {
		err = fmt.Errorf("no interface named or addressed %q", ident)
	}
	return
}

// Retrieves the network interface corresponding to a specific address
func getInterfaceForAddress(address string) (iface *net.Interface, err error) {
	address = strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")
	want := net.ParseIP(address)
	if want == nil {
		err = fmt.Errorf("invalid interface address %q", address)
		return
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return
	}

	for i := range ifaces {
		addrs, addrErr := ifaces[i].Addrs()
		if addrErr != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if ok && ipNet.IP.Equal(want) {
				iface = &ifaces[i]
				return
			}
		}
	}

	err = fmt.Errorf("no matching interface found for address %v", address)
	return
}
