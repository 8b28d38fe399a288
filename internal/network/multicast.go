package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// UDP socket with an active multicast group membership
type Membership struct {
	Conn  *net.UDPConn
	Group net.IP
	Port  int
	Iface *net.Interface // nil = kernel default

	v4        *ipv4.PacketConn
	v6        *ipv6.PacketConn
	leaveOnce sync.Once
	leaveErr  error
}

// Binds the wildcard address on port and joins group on iface (nil for default).
// Either failure is fatal to the caller, the socket is released before returning.
func JoinMulticast(ctx context.Context, group net.IP, port int, iface *net.Interface) (membership *Membership, err error) {
	if group == nil || !group.IsMulticast() {
		err = fmt.Errorf("%v is not a multicast group address", group)
		return
	}

	network, wildcard := "udp4", "0.0.0.0"
	if IsIPv6(group) {
		network, wildcard = "udp6", "::"
	}

	conn, err := listenReusedUDP(ctx, network, net.JoinHostPort(wildcard, strconv.Itoa(port)))
	if err != nil {
		return
	}

	membership = &Membership{
		Conn:  conn,
		Group: group,
		Port:  port,
		Iface: iface,
	}
	groupAddr := &net.UDPAddr{IP: group}

	if network == "udp4" {
		membership.v4 = ipv4.NewPacketConn(conn)
		err = membership.v4.JoinGroup(iface, groupAddr)
	} else {
		membership.v6 = ipv6.NewPacketConn(conn)
		err = membership.v6.JoinGroup(iface, groupAddr)
	}
	if err != nil {
		_ = conn.Close()
		membership = nil
		err = fmt.Errorf("failed to join multicast group %v: %v", group, err)
		return
	}
	return
}

// Leaves the group and then releases the socket. Safe to call more than once.
func (membership *Membership) Leave() (err error) {
	membership.leaveOnce.Do(func() {
		groupAddr := &net.UDPAddr{IP: membership.Group}

		var leaveErr error
		if membership.v4 != nil {
			leaveErr = membership.v4.LeaveGroup(membership.Iface, groupAddr)
		} else if membership.v6 != nil {
			leaveErr = membership.v6.LeaveGroup(membership.Iface, groupAddr)
		}

		closeErr := membership.Conn.Close()
		if leaveErr != nil {
			membership.leaveErr = fmt.Errorf("failed to leave multicast group %v: %v", membership.Group, leaveErr)
		} else if closeErr != nil {
			membership.leaveErr = fmt.Errorf("failed to close multicast socket: %v", closeErr)
		}
	})
	err = membership.leaveErr
	return
}

// Local address the socket is bound to
func (membership *Membership) LocalAddr() (addr *net.UDPAddr) {
	addr, _ = membership.Conn.LocalAddr().(*net.UDPAddr)
	return
}
