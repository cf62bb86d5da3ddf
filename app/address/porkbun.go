package address

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Septrum101/porkbunDDNS/common/ddns/porkbun"
	"github.com/Septrum101/porkbunDDNS/helper"
)

// Porkbun uses the address the Porkbun API sees in a ping. IPv4 lookups go
// to the IPv4 only API host; each client only dials its own family.
type Porkbun struct {
	clients map[string]*porkbun.Client
}

func NewPorkbun(apiKey string, secretKey string, opts ...porkbun.Option) *Porkbun {
	v4 := []porkbun.Option{
		porkbun.WithBaseURL(porkbun.IPv4BaseURL),
		porkbun.WithHTTPClient(&http.Client{Transport: pinnedTransport("tcp4")}),
	}
	v6 := []porkbun.Option{
		porkbun.WithHTTPClient(&http.Client{Transport: pinnedTransport("tcp6")}),
	}

	return &Porkbun{clients: map[string]*porkbun.Client{
		"tcp4": porkbun.New(apiKey, secretKey, append(v4, opts...)...),
		"tcp6": porkbun.New(apiKey, secretKey, append(v6, opts...)...),
	}}
}

func (p *Porkbun) Lookup(ctx context.Context, network string) (string, error) {
	cli, ok := p.clients[network]
	if !ok {
		return "", fmt.Errorf("unsupported network %q", network)
	}

	resp := cli.Ping(ctx)
	if !resp.OK() {
		return "", fmt.Errorf("%w: ping: %s", ErrNoAddress, resp.Message)
	}
	addr, ok := helper.ParseIP(network, resp.YourIP)
	if !ok {
		return "", fmt.Errorf("%w: ping reported %q for %s", ErrNoAddress, resp.YourIP, network)
	}
	return addr, nil
}
