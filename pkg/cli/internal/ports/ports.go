// Package ports provides listen address availability checking.
package ports

import (
	"fmt"
	"net"
)

// Check reports an error if addr cannot be bound.
func Check(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s unavailable: %w", addr, err)
	}
	_ = ln.Close()
	return nil
}

