package ddns

import (
	"context"
	"fmt"
	"strings"
)

// Zone is the result of resolving a hostname: the zone that owns it, the
// subdomain relative to that zone and the records currently published.
type Zone struct {
	Zone      string
	Subdomain string
	Records   []Record
}

// ZoneResolver finds the zone of a hostname and fetches its records of the
// requested type.
type ZoneResolver interface {
	Resolve(ctx context.Context, backend Backend, hostname, recordType string) (*Zone, error)
}

// Probe discovers the zone by trying suffixes of the hostname, shortest
// first. The lookup of a candidate zone is also the record fetch, so a
// hostname under a two label zone costs a single call.
//
//	example.com       → example.com (sub "")
//	a.b.example.com   → example.com (sub "a.b")
//	sub.example.co.uk → co.uk fails, example.co.uk (sub "sub")
type Probe struct{}

func (Probe) Resolve(ctx context.Context, backend Backend, hostname, recordType string) (*Zone, error) {
	labels := strings.Split(hostname, ".")

	msg := "no candidate zone"
	for i := len(labels) - 2; i >= 0; i-- {
		zone, sub := strings.Join(labels[i:], "."), strings.Join(labels[:i], ".")
		reply := backend.RetrieveByNameType(ctx, zone, recordType, sub)
		if reply.OK {
			return &Zone{Zone: zone, Subdomain: sub, Records: reply.Records}, nil
		}
		if reply.Message != "" {
			msg = reply.Message
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnresolvable, msg)
}

// Configured uses a zone given by configuration and only derives the subdomain.
type Configured struct {
	Zone string
}

func (c Configured) Resolve(ctx context.Context, backend Backend, hostname, recordType string) (*Zone, error) {
	sub, ok := Subdomain(hostname, c.Zone)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not within zone %s", ErrUnresolvable, hostname, c.Zone)
	}

	reply := backend.RetrieveByNameType(ctx, c.Zone, recordType, sub)
	if !reply.OK {
		msg := reply.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnresolvable, msg)
	}

	return &Zone{Zone: c.Zone, Subdomain: sub, Records: reply.Records}, nil
}

// Subdomain strips zone from hostname. It returns "" for the zone apex and
// false when hostname does not belong to zone.
func Subdomain(hostname, zone string) (string, bool) {
	if hostname == zone {
		return "", true
	}
	if zone == "" || !strings.HasSuffix(hostname, "."+zone) {
		return "", false
	}
	return strings.TrimSuffix(hostname, "."+zone), true
}

// FQDN joins a subdomain and its zone.
func FQDN(subdomain, zone string) string {
	if subdomain == "" {
		return zone
	}
	return subdomain + "." + zone
}
