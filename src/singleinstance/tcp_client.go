package singleinstance

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"
)

const sendTimeout = 2 * time.Second

type tcpClient struct{}

func newTcpClient() Client { return &tcpClient{} }

func (c *tcpClient) Send(ctx context.Context, cmd Command) (bool, error) {
	addr, ok := findResident(ctx, sendTimeout)
	if !ok {
		return false, nil
	}
	return true, send(addr, cmd, timeoutFrom(ctx, sendTimeout))
}

func send(addr string, cmd Command, timeout time.Duration) error {
	conn, br, err := exchange(addr, string(cmd)+"\n", timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	status, err := br.ReadString('\n')
	if err != nil {
		return err
	}
	switch status {
	case okResponse:
		return nil
	case errorResponse:
		msg, _ := io.ReadAll(br)
		return errors.New(strings.TrimSpace(string(msg)))
	}
	return errors.New("unexpected response " + strconv.Quote(status))
}
