package singleinstance

// This file defines the API for single-instance ownership and command delegation.

import (
	"context"
	"errors"
	"strings"
)

// Command is what a second launch asks the resident instance to do.
type Command string

const (
	CommandShow           Command = "SHOW"
	CommandSnap           Command = "SNAP"
	CommandToggleAutoSnap Command = "AUTOSNAP"
)

var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand accepts a command name in any case.
func ParseCommand(s string) (Command, error) {
	switch c := Command(strings.ToUpper(strings.TrimSpace(s))); c {
	case CommandShow, CommandSnap, CommandToggleAutoSnap:
		return c, nil
	}
	return "", ErrUnknownCommand
}

// Server owns the TCP endpoint and answers delegated commands.
type Server interface {
	// Start begins listening on the first port of the configured range.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted connection as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection and exposes request + response API.
type Conn interface {
	Request() Request
	RespondOK() error
	// RespondError sends an error with a human-readable message.
	RespondError(msg string) error
	Close() error
}

// Request represents a single delegated command.
type Request struct {
	Command Command
}

// Client delegates a command to a resident server.
type Client interface {
	// Send scans the port range, performs the handshake and delegates cmd.
	// If no resident is found, returns delegated=false, err=nil.
	Send(ctx context.Context, cmd Command) (delegated bool, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
