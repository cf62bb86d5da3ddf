// Package address discovers the current public address of this host.
package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/Septrum101/porkbunDDNS/helper"
)

var ErrNoAddress = errors.New("no address found")

// Source yields the current address for network ("tcp4" or "tcp6").
type Source interface {
	Lookup(ctx context.Context, network string) (string, error)
}

// Static returns fixed addresses.
type Static struct {
	V4 string
	V6 string
}

func (s Static) Lookup(_ context.Context, network string) (string, error) {
	raw := s.V4
	if network == "tcp6" {
		raw = s.V6
	}
	if raw == "" {
		return "", fmt.Errorf("%w: no static %s address", ErrNoAddress, network)
	}
	addr, ok := helper.ParseIP(network, raw)
	if !ok {
		return "", fmt.Errorf("%w: static address %q is not valid for %s", ErrNoAddress, raw, network)
	}
	return addr, nil
}
