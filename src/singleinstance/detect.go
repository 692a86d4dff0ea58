package singleinstance

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"
)

const pingTimeout = 300 * time.Millisecond

// DetectResidentPort returns the first port of the range where an instance answers PING.
func DetectResidentPort(ctx context.Context) (int, bool) {
	addr, ok := findResident(ctx, pingTimeout)
	if !ok {
		return 0, false
	}
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, false
	}
	port, err := strconv.Atoi(p)
	return port, err == nil
}

// findResident scans the port range and returns the address of the first resident.
func findResident(ctx context.Context, fallback time.Duration) (string, bool) {
	timeout := timeoutFrom(ctx, fallback)
	start, end := getPortRange()
	for port := start; port <= end; port++ {
		if ctx.Err() != nil {
			return "", false
		}
		addr := net.JoinHostPort(residentHost, strconv.Itoa(port))
		if ping(addr, timeout) {
			return addr, true
		}
	}
	return "", false
}

func timeoutFrom(ctx context.Context, fallback time.Duration) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < fallback {
			return d
		}
	}
	return fallback
}

func ping(addr string, timeout time.Duration) bool {
	conn, br, err := exchange(addr, pingRequest, timeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	resp, err := br.ReadString('\n')
	return err == nil && resp == pongResponse
}

// exchange dials addr, writes one request line and returns a reader for the reply.
func exchange(addr, line string, timeout time.Duration) (net.Conn, *bufio.Reader, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, nil, err
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(line); err == nil {
		err = w.Flush()
	}
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, bufio.NewReader(conn), nil
}
