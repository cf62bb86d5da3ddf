package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cloudflare/cloudflare-go"

	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/metrics"
)

// autoTTL lets Cloudflare pick the TTL of created records.
const autoTTL = 1

// Cloudflare Implementation
type Cloudflare struct {
	client *cloudflare.API

	mu    sync.Mutex
	zones map[string]string
}

// New builds a back end authenticated by an API token. Extra options are
// passed to cloudflare-go, e.g. cloudflare.BaseURL or cloudflare.HTTPClient.
func New(token string, opts ...cloudflare.Option) (*Cloudflare, error) {
	if token == "" {
		return nil, errors.New("cloudflare API token is empty")
	}

	client, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, err
	}

	return &Cloudflare{client: client, zones: make(map[string]string)}, nil
}

func (cf *Cloudflare) RetrieveByNameType(ctx context.Context, zone, recordType, subdomain string) *ddns.Reply {
	_, records, err := cf.getRecords(ctx, zone, recordType, subdomain)
	if err != nil {
		return failed("retrieve", err)
	}

	reply := &ddns.Reply{OK: true, Records: make([]ddns.Record, 0, len(records))}
	for i := range records {
		reply.Records = append(reply.Records, ddns.Record{
			ID:      records[i].ID,
			Name:    records[i].Name,
			Type:    records[i].Type,
			Content: records[i].Content,
			TTL:     records[i].TTL,
		})
	}
	return ok("retrieve", reply)
}

// EditByNameType updates every record matching name and type.
func (cf *Cloudflare) EditByNameType(ctx context.Context, zone, recordType, subdomain, content string) *ddns.Reply {
	zoneID, records, err := cf.getRecords(ctx, zone, recordType, subdomain)
	if err != nil {
		return failed("edit_by_name", err)
	}
	if len(records) == 0 {
		return failed("edit_by_name", fmt.Errorf("no %s record for %s", recordType, ddns.FQDN(subdomain, zone)))
	}

	for i := range records {
		_, err = cf.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateDNSRecordParams{
			Type:    recordType,
			Name:    records[i].Name,
			ID:      records[i].ID,
			Content: content,
		})
		if err != nil {
			return failed("edit_by_name", fmt.Errorf("update record %s failure: %w", records[i].ID, err))
		}
	}
	return ok("edit_by_name", &ddns.Reply{OK: true})
}

func (cf *Cloudflare) Edit(ctx context.Context, zone, id, recordType, content string) *ddns.Reply {
	zoneID, err := cf.zoneID(zone)
	if err != nil {
		return failed("edit", err)
	}

	_, err = cf.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateDNSRecordParams{
		Type:    recordType,
		ID:      id,
		Content: content,
	})
	if err != nil {
		return failed("edit", fmt.Errorf("update record %s failure: %w", id, err))
	}
	return ok("edit", &ddns.Reply{OK: true})
}

func (cf *Cloudflare) Create(ctx context.Context, zone, subdomain, recordType, content string) *ddns.Reply {
	zoneID, err := cf.zoneID(zone)
	if err != nil {
		return failed("create", err)
	}

	_, err = cf.client.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.CreateDNSRecordParams{
		Type:    recordType,
		Name:    ddns.FQDN(subdomain, zone),
		Content: content,
		TTL:     autoTTL,
	})
	if err != nil {
		return failed("create", fmt.Errorf("create record failure: %w", err))
	}
	return ok("create", &ddns.Reply{OK: true})
}

func (cf *Cloudflare) getRecords(ctx context.Context, zone, recordType, subdomain string) (string, []cloudflare.DNSRecord, error) {
	zoneID, err := cf.zoneID(zone)
	if err != nil {
		return "", nil, err
	}

	records, _, err := cf.client.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.ListDNSRecordsParams{
		Type: recordType,
		Name: ddns.FQDN(subdomain, zone),
	})
	if err != nil {
		return "", nil, err
	}
	return zoneID, records, nil
}

// zoneID looks up and caches the identifier of a zone name.
func (cf *Cloudflare) zoneID(zone string) (string, error) {
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if id, ok := cf.zones[zone]; ok {
		return id, nil
	}
	id, err := cf.client.ZoneIDByName(zone)
	if err != nil {
		return "", fmt.Errorf("zone %s: %w", zone, err)
	}
	cf.zones[zone] = id
	return id, nil
}

func ok(op string, reply *ddns.Reply) *ddns.Reply {
	metrics.APICallsTotal.WithLabelValues("cloudflare", op, "SUCCESS").Inc()
	return reply
}

func failed(op string, err error) *ddns.Reply {
	metrics.APICallsTotal.WithLabelValues("cloudflare", op, "ERROR").Inc()
	return ddns.Failed(err)
}

var _ ddns.Backend = (*Cloudflare)(nil)
