// Package service is the registry of DNS services an account can select.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/metrics"
)

var (
	ErrPrecheck           = errors.New("account precheck did not pass")
	ErrNoHostnames        = errors.New("no hostnames configured")
	ErrZoneRequired       = errors.New("zone is required")
	ErrUnknownService     = errors.New("unknown service")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrIncomplete         = errors.New("not every hostname was updated")
)

type Kind int

const (
	KindPorkbun Kind = iota
	KindPorkbunZone
	KindCloudflare
	KindLightsail
)

// ZoneMode tells how a service treats the Zone setting.
type ZoneMode int

const (
	// ZoneIgnored always discovers the zone by probing.
	ZoneIgnored ZoneMode = iota
	// ZoneRequired fails without a zone and may create records.
	ZoneRequired
	// ZoneOptional probes without a zone and behaves like ZoneRequired with one.
	ZoneOptional
)

type kindInfo struct {
	id   string
	name string
	zone ZoneMode
}

var kinds = map[Kind]kindInfo{
	KindPorkbun:     {id: "porkbun", name: "Porkbun", zone: ZoneIgnored},
	KindPorkbunZone: {id: "porkbun-zone", name: "Porkbun (configured zone)", zone: ZoneRequired},
	KindCloudflare:  {id: "cloudflare", name: "Cloudflare", zone: ZoneOptional},
	KindLightsail:   {id: "lightsail", name: "AWS Lightsail", zone: ZoneOptional},
}

func (k Kind) ID() string {
	return kinds[k].id
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) ZoneMode() ZoneMode {
	return kinds[k].zone
}

// Service is one DNS back end selectable by an account.
type Service interface {
	Kind() Kind
	KnownServices() map[string]string
	Match(a *account.Account) bool
	Execute(ctx context.Context, a *account.Account) (*ddns.Result, error)
}

// BackendFunc builds the back end for an account.
type BackendFunc func(a *account.Account) (ddns.Backend, error)

type service struct {
	kind    Kind
	backend BackendFunc
}

func New(kind Kind, backend BackendFunc) Service {
	return &service{kind: kind, backend: backend}
}

func (s *service) Kind() Kind {
	return s.kind
}

func (s *service) KnownServices() map[string]string {
	return map[string]string{s.kind.ID(): s.kind.String()}
}

func (s *service) Match(a *account.Account) bool {
	return strings.EqualFold(strings.TrimSpace(a.Service), s.kind.ID())
}

// Execute runs the shared precheck, validates the settings, syncs every
// hostname and persists the address once all of them succeeded.
func (s *service) Execute(ctx context.Context, a *account.Account) (*ddns.Result, error) {
	if !a.Precheck() {
		metrics.AccountRunsTotal.WithLabelValues(s.kind.ID(), "skipped").Inc()
		return nil, ErrPrecheck
	}

	result, err := s.execute(ctx, a)
	if err != nil {
		metrics.AccountRunsTotal.WithLabelValues(s.kind.ID(), "failure").Inc()
		return result, err
	}

	metrics.AccountRunsTotal.WithLabelValues(s.kind.ID(), "success").Inc()
	metrics.LastSuccess.WithLabelValues(a.Description).Set(float64(time.Now().Unix()))
	return result, nil
}

func (s *service) execute(ctx context.Context, a *account.Account) (*ddns.Result, error) {
	if len(a.Hostnames) == 0 {
		return nil, ErrNoHostnames
	}
	resolver, create, err := s.resolver(a)
	if err != nil {
		return nil, err
	}
	backend, err := s.backend(a)
	if err != nil {
		return nil, err
	}

	client := ddns.New(backend, resolver,
		ddns.WithCreate(create),
		ddns.WithVerbose(a.Verbose),
		ddns.WithLogger(a.Logger),
	)
	result := client.Sync(ctx, a.Hostnames, a.CurrentAddress())
	for _, h := range result.Hosts {
		metrics.HostnamesTotal.WithLabelValues(s.kind.ID(), string(h.State)).Inc()
	}

	if !result.Success() {
		return result, fmt.Errorf("%w: %d of %d failed", ErrIncomplete, len(result.Failed()), len(result.Hosts))
	}
	if err := a.UpdateState(result.Address); err != nil {
		return result, fmt.Errorf("persist state: %w", err)
	}
	return result, nil
}

func (s *service) resolver(a *account.Account) (ddns.ZoneResolver, bool, error) {
	zone := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(a.Zone), "."))

	switch s.kind.ZoneMode() {
	case ZoneRequired:
		if zone == "" {
			return nil, false, ErrZoneRequired
		}
		return ddns.Configured{Zone: zone}, true, nil
	case ZoneOptional:
		if zone != "" {
			return ddns.Configured{Zone: zone}, true, nil
		}
	}
	return ddns.Probe{}, false, nil
}

// Registry dispatches an account to the service it selects.
type Registry struct {
	services []Service
}

func NewRegistry(services ...Service) *Registry {
	return &Registry{services: services}
}

// Default holds every built in service.
func Default() *Registry {
	return NewRegistry(Porkbun(), PorkbunZone(), Cloudflare(), Lightsail())
}

func (r *Registry) KnownServices() map[string]string {
	known := make(map[string]string)
	for _, s := range r.services {
		for id, name := range s.KnownServices() {
			known[id] = name
		}
	}
	return known
}

// IDs returns the known service ids, sorted.
func (r *Registry) IDs() []string {
	var ids []string
	for id := range r.KnownServices() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Match(a *account.Account) (Service, error) {
	for _, s := range r.services {
		if s.Match(a) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w %q, known: %s", ErrUnknownService, a.Service, strings.Join(r.IDs(), ", "))
}

func (r *Registry) Execute(ctx context.Context, a *account.Account) (*ddns.Result, error) {
	s, err := r.Match(a)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, a)
}
