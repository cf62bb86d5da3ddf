package ddns

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUnresolvable = errors.New("zone could not be resolved")
	ErrNoRecord     = errors.New("no record found")
	ErrUpdate       = errors.New("update rejected")
)

// Record is a DNS record as reported by a back end.
type Record struct {
	ID      string
	Name    string
	Type    string
	Content string
	TTL     int
}

// Reply is the normalized outcome of a single back end call. Transport and
// API failures are both reported through OK and Message.
type Reply struct {
	OK      bool
	Message string
	Records []Record
}

// Failed builds a non-successful reply from an error.
func Failed(err error) *Reply {
	return &Reply{Message: err.Error()}
}

// Backend is one DNS provider API. Implementations never return a nil reply.
type Backend interface {
	RetrieveByNameType(ctx context.Context, zone, recordType, subdomain string) *Reply
	EditByNameType(ctx context.Context, zone, recordType, subdomain, content string) *Reply
	Edit(ctx context.Context, zone, id, recordType, content string) *Reply
	Create(ctx context.Context, zone, subdomain, recordType, content string) *Reply
}

// Client keeps a list of hostnames in sync with an address.
type Client struct {
	backend  Backend
	resolver ZoneResolver
	create   bool
	verbose  bool
	logger   *log.Entry
}

type Option func(*Client)

// WithCreate allows creating records that do not exist yet.
func WithCreate(create bool) Option {
	return func(c *Client) {
		c.create = create
	}
}

func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(backend Backend, resolver ZoneResolver, opts ...Option) *Client {
	c := &Client{
		backend:  backend,
		resolver: resolver,
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RecordType returns AAAA for IPv6 addresses and A for anything else.
func RecordType(address string) string {
	if strings.Contains(address, ":") {
		return "AAAA"
	}
	return "A"
}

// Sync brings every hostname to address, one hostname at a time. A failing
// hostname never stops the remaining ones.
func (c *Client) Sync(ctx context.Context, hostnames []string, address string) *Result {
	result := NewResult(address)
	recordType := RecordType(address)

	for _, hostname := range hostnames {
		result.Add(c.syncHost(ctx, hostname, recordType, address))
	}
	result.Complete()

	return result
}

func (c *Client) syncHost(ctx context.Context, hostname string, recordType string, address string) HostResult {
	hr := HostResult{
		Hostname:   hostname,
		RecordType: recordType,
		State:      StateUnresolved,
	}
	logger := c.logger.WithField("hostname", hostname)

	zone, err := c.resolver.Resolve(ctx, c.backend, hostname, recordType)
	if err != nil {
		hr.State = StateUnresolvable
		hr.Err = err
		logger.Errorf("no %s record found for %s: %v", recordType, hostname, err)
		return hr
	}
	hr.State = StateZoneFound
	hr.Zone = zone.Zone
	hr.Subdomain = zone.Subdomain

	var reply *Reply
	switch {
	case len(zone.Records) == 0 && !c.create:
		hr.State = StateUpdateFailed
		hr.Err = fmt.Errorf("%w: %s %s in zone %s", ErrNoRecord, recordType, hostname, zone.Zone)
		logger.Errorf("no %s record found for %s", recordType, hostname)
		return hr
	case len(zone.Records) == 0:
		hr.Action = ActionCreate
		reply = c.backend.Create(ctx, zone.Zone, zone.Subdomain, recordType, address)
	case sameAddress(zone.Records[0].Content, address):
		hr.State = StateUpToDate
		if c.verbose {
			logger.Infof("IP for %s is already %s", hostname, address)
		} else {
			logger.Debugf("IP for %s is already %s", hostname, address)
		}
		return hr
	case zone.Subdomain != "":
		hr.Action = ActionEditByName
		reply = c.backend.EditByNameType(ctx, zone.Zone, recordType, zone.Subdomain, address)
	default:
		// editByNameType is unreliable for the zone apex, edit the record by id instead
		hr.Action = ActionEdit
		reply = c.backend.Edit(ctx, zone.Zone, zone.Records[0].ID, recordType, address)
	}

	if !reply.OK {
		msg := reply.Message
		if msg == "" {
			msg = "Unknown error"
		}
		hr.State = StateUpdateFailed
		hr.Err = fmt.Errorf("%w: %s", ErrUpdate, msg)
		logger.Errorf("failed to set ip %s for %s: %s", address, hostname, msg)
		return hr
	}

	hr.State = StateUpdated
	logger.Infof("set new ip %s for %s", address, hostname)
	return hr
}

// sameAddress compares two textual IPs by value, so 2001:0db8::1 equals
// 2001:db8::1. Unparseable content falls back to string equality.
func sameAddress(a, b string) bool {
	x, err := netip.ParseAddr(a)
	if err != nil {
		return a == b
	}
	y, err := netip.ParseAddr(b)
	if err != nil {
		return a == b
	}
	return x.Unmap() == y.Unmap()
}
