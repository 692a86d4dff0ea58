//go:build !windows

package main

// Other platforms report logical coordinates already scaled by the toolkit.
func enableDPIAwareness() {}
