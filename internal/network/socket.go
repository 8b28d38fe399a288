// Multicast group membership and socket setup for the collector. Unix only (golang.org/x/sys/unix socket options).
package network

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Socket option hook allowing several collectors (and restarts) to share a port
func reuseAddrControl(network, address string, c syscall.RawConn) (err error) {
	ctrlErr := c.Control(func(fd uintptr) {
		// Using x/sys/unix package for more up-to-date syscall numbers
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if ctrlErr != nil {
		err = ctrlErr
	}
	return
}

// Binds a UDP socket with address reuse enabled
func listenReusedUDP(ctx context.Context, network string, addr string) (conn *net.UDPConn, err error) {
	cfg := net.ListenConfig{Control: reuseAddrControl}

	pc, err := cfg.ListenPacket(ctx, network, addr)
	if err != nil {
		err = fmt.Errorf("failed to bind %s %s: %v", network, addr, err)
		return
	}
	conn = pc.(*net.UDPConn)
	return
}

// Creates TCP listener with address reuse so a restarted daemon can rebind while old sockets are in TIME_WAIT
func ListenReusedTCP(ctx context.Context, addr string) (listener net.Listener, err error) {
	cfg := net.ListenConfig{Control: reuseAddrControl}

	listener, err = cfg.Listen(ctx, "tcp", addr)
	if err != nil {
		err = fmt.Errorf("failed to listen on tcp %s: %v", addr, err)
		return
	}
	return
}

// Sets the kernel receive buffer so bursts from many nodes are not lost while the consumer is busy
func SetReadBuffer(conn *net.UDPConn, bytes int) (err error) {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return
	}
	ctrlErr := rawConn.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, bytes)
	})
	if ctrlErr != nil {
		err = ctrlErr
	}
	return
}
