package address

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"
)

const (
	DefaultNameserver = "resolver1.opendns.com:53"
	myIPName          = "myip.opendns.com."
)

// DNS asks an OpenDNS resolver for myip.opendns.com, which answers with the
// address the query came from.
type DNS struct {
	Nameserver string
	Timeout    time.Duration
}

func (d DNS) Lookup(ctx context.Context, network string) (string, error) {
	qtype, udp := dns.TypeA, "udp4"
	switch network {
	case "tcp4":
	case "tcp6":
		qtype, udp = dns.TypeAAAA, "udp6"
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}

	server := d.Nameserver
	if server == "" {
		server = DefaultNameserver
	}
	timeout := d.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	m := new(dns.Msg)
	m.SetQuestion(myIPName, qtype)
	c := &dns.Client{Net: udp, Timeout: timeout}

	in, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return "", err
	}
	if in.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("%w: %s answered %s", ErrNoAddress, server, dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				return v.A.String(), nil
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				return v.AAAA.String(), nil
			}
		}
	}
	return "", fmt.Errorf("%w: empty answer from %s", ErrNoAddress, server)
}
