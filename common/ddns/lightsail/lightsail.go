// Package lightsail keeps records of Lightsail DNS zones.
package lightsail

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lightsail"
	"github.com/aws/aws-sdk-go/service/lightsail/lightsailiface"

	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/metrics"
)

// DefaultRegion is the only region serving the Lightsail domain API.
const DefaultRegion = "us-east-1"

type Lightsail struct {
	svc lightsailiface.LightsailAPI
}

func New(accessKeyID string, secretAccessKey string, region string) (*Lightsail, error) {
	if region == "" {
		region = DefaultRegion
	}

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			accessKeyID,
			secretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, err
	}

	return NewWithAPI(lightsail.New(sess, aws.NewConfig().WithRegion(region))), nil
}

func NewWithAPI(svc lightsailiface.LightsailAPI) *Lightsail {
	return &Lightsail{svc: svc}
}

func (l *Lightsail) RetrieveByNameType(ctx context.Context, zone, recordType, subdomain string) *ddns.Reply {
	entries, err := l.getEntries(ctx, zone, recordType, subdomain)
	if err != nil {
		return failed("retrieve", err)
	}

	reply := &ddns.Reply{OK: true, Records: make([]ddns.Record, 0, len(entries))}
	for i := range entries {
		reply.Records = append(reply.Records, ddns.Record{
			ID:      aws.StringValue(entries[i].Id),
			Name:    aws.StringValue(entries[i].Name),
			Type:    aws.StringValue(entries[i].Type),
			Content: aws.StringValue(entries[i].Target),
		})
	}
	return ok("retrieve", reply)
}

func (l *Lightsail) EditByNameType(ctx context.Context, zone, recordType, subdomain, content string) *ddns.Reply {
	entries, err := l.getEntries(ctx, zone, recordType, subdomain)
	if err != nil {
		return failed("edit_by_name", err)
	}
	if len(entries) == 0 {
		return failed("edit_by_name", fmt.Errorf("no %s record for %s", recordType, ddns.FQDN(subdomain, zone)))
	}

	for i := range entries {
		if err := l.update(ctx, zone, entries[i].Id, entries[i].Name, recordType, content); err != nil {
			return failed("edit_by_name", err)
		}
	}
	return ok("edit_by_name", &ddns.Reply{OK: true})
}

func (l *Lightsail) Edit(ctx context.Context, zone, id, recordType, content string) *ddns.Reply {
	// UpdateDomainEntry needs the entry name as well as its id
	all, err := l.domainEntries(ctx, zone)
	if err != nil {
		return failed("edit", err)
	}
	for _, e := range all {
		if aws.StringValue(e.Id) != id {
			continue
		}
		if err := l.update(ctx, zone, e.Id, e.Name, recordType, content); err != nil {
			return failed("edit", err)
		}
		return ok("edit", &ddns.Reply{OK: true})
	}
	return failed("edit", fmt.Errorf("no record with id %s in %s", id, zone))
}

func (l *Lightsail) Create(ctx context.Context, zone, subdomain, recordType, content string) *ddns.Reply {
	_, err := l.svc.CreateDomainEntryWithContext(ctx, &lightsail.CreateDomainEntryInput{
		DomainName: aws.String(zone),
		DomainEntry: &lightsail.DomainEntry{
			Name:   aws.String(ddns.FQDN(subdomain, zone)),
			Type:   aws.String(recordType),
			Target: aws.String(content),
		},
	})
	if err != nil {
		return failed("create", err)
	}
	return ok("create", &ddns.Reply{OK: true})
}

func (l *Lightsail) update(ctx context.Context, zone string, id, name *string, recordType, content string) error {
	_, err := l.svc.UpdateDomainEntryWithContext(ctx, &lightsail.UpdateDomainEntryInput{
		DomainName: aws.String(zone),
		DomainEntry: &lightsail.DomainEntry{
			Id:     id,
			Name:   name,
			Type:   aws.String(recordType),
			Target: aws.String(content),
		},
	})
	if err != nil {
		return fmt.Errorf("update record %s failure: %w", aws.StringValue(id), err)
	}
	return nil
}

func (l *Lightsail) getEntries(ctx context.Context, zone, recordType, subdomain string) ([]*lightsail.DomainEntry, error) {
	all, err := l.domainEntries(ctx, zone)
	if err != nil {
		return nil, err
	}

	name := ddns.FQDN(subdomain, zone)
	var entries []*lightsail.DomainEntry
	for _, e := range all {
		if aws.StringValue(e.Type) != recordType {
			continue
		}
		if !strings.EqualFold(strings.TrimSuffix(aws.StringValue(e.Name), "."), name) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (l *Lightsail) domainEntries(ctx context.Context, zone string) ([]*lightsail.DomainEntry, error) {
	out, err := l.svc.GetDomainWithContext(ctx, &lightsail.GetDomainInput{DomainName: aws.String(zone)})
	if err != nil {
		return nil, err
	}
	if out.Domain == nil {
		return nil, fmt.Errorf("domain %s not found", zone)
	}
	return out.Domain.DomainEntries, nil
}

func ok(op string, reply *ddns.Reply) *ddns.Reply {
	metrics.APICallsTotal.WithLabelValues("lightsail", op, "SUCCESS").Inc()
	return reply
}

func failed(op string, err error) *ddns.Reply {
	metrics.APICallsTotal.WithLabelValues("lightsail", op, "ERROR").Inc()
	return ddns.Failed(err)
}

var _ ddns.Backend = (*Lightsail)(nil)
