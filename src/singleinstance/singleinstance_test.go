package singleinstance

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func usePorts(t *testing.T, start int) {
	t.Helper()
	t.Setenv("SNAPMOSAIC_PORT_START", strconv.Itoa(start))
	t.Setenv("SNAPMOSAIC_PORT_END", strconv.Itoa(start+2))
}

func TestServerClientRoundTrip(t *testing.T) {
	usePorts(t, 49720)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback listener unavailable in this environment: %v", err)
	}
	defer srv.Close()

	if port, ok := DetectResidentPort(ctx); !ok || port != srv.Port() {
		t.Fatalf("DetectResidentPort = %d, %v", port, ok)
	}

	client := NewClient()
	type result struct {
		delegated bool
		err       error
	}
	done := make(chan result, 1)
	go func() {
		delegated, err := client.Send(ctx, CommandShow)
		done <- result{delegated, err}
	}()

	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if conn.Request().Command != CommandShow {
		t.Errorf("command = %q", conn.Request().Command)
	}
	if err := conn.RespondOK(); err != nil {
		t.Fatalf("respond: %v", err)
	}
	conn.Close()

	r := <-done
	if !r.delegated || r.err != nil {
		t.Errorf("Send = %v, %v", r.delegated, r.err)
	}
}

func TestServerErrorReachesClient(t *testing.T) {
	usePorts(t, 49730)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := NewServer()
	if err := srv.Start(ctx); err != nil {
		t.Skipf("loopback listener unavailable in this environment: %v", err)
	}
	defer srv.Close()

	done := make(chan error, 1)
	go func() {
		_, err := NewClient().Send(ctx, CommandSnap)
		done <- err
	}()
	conn, err := srv.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	_ = conn.RespondError("no region defined")
	conn.Close()
	if err := <-done; err == nil || err.Error() != "no region defined" {
		t.Errorf("client error = %v", err)
	}
}

func TestNoResident(t *testing.T) {
	usePorts(t, 49740)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	delegated, err := NewClient().Send(ctx, CommandShow)
	if delegated || err != nil {
		t.Errorf("Send without resident = %v, %v", delegated, err)
	}
}

func TestNextAfterClose(t *testing.T) {
	srv := NewServer()
	srv.Close()
	srv.Close()
	if _, err := srv.Next(context.Background()); !errors.Is(err, errClosed) {
		t.Errorf("Next after Close = %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
		ok   bool
	}{
		{"SHOW\n", CommandShow, true},
		{"snap", CommandSnap, true},
		{" autosnap ", CommandToggleAutoSnap, true},
		{"STDOUT", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommand(tt.in)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseCommand(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestPortRangeClamps(t *testing.T) {
	t.Setenv("SNAPMOSAIC_PORT_START", "80")
	t.Setenv("SNAPMOSAIC_PORT_END", "70000")
	start, end := PortRange()
	if start != 1024 || end != 65535 {
		t.Errorf("range = %d..%d", start, end)
	}
}
