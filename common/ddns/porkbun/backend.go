package porkbun

import (
	"context"

	"github.com/Septrum101/porkbunDDNS/common/ddns"
)

// Backend exposes a Client to the reconciliation engine.
type Backend struct {
	client *Client
}

func NewBackend(c *Client) *Backend {
	return &Backend{client: c}
}

func (b *Backend) RetrieveByNameType(ctx context.Context, zone, recordType, subdomain string) *ddns.Reply {
	return b.client.RetrieveByNameType(ctx, zone, recordType, subdomain).Reply()
}

func (b *Backend) EditByNameType(ctx context.Context, zone, recordType, subdomain, content string) *ddns.Reply {
	return b.client.EditByNameType(ctx, zone, recordType, subdomain, content).Reply()
}

func (b *Backend) Edit(ctx context.Context, zone, id, recordType, content string) *ddns.Reply {
	return b.client.Edit(ctx, zone, id, recordType, content).Reply()
}

func (b *Backend) Create(ctx context.Context, zone, subdomain, recordType, content string) *ddns.Reply {
	return b.client.Create(ctx, zone, subdomain, recordType, content).Reply()
}

var _ ddns.Backend = (*Backend)(nil)
