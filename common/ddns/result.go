package ddns

import (
	"fmt"
	"time"
)

// HostState is the reconciliation state of one hostname.
type HostState string

const (
	StateUnresolved   HostState = "unresolved"
	StateZoneFound    HostState = "zone_found"
	StateUnresolvable HostState = "unresolvable"
	StateUpToDate     HostState = "up_to_date"
	StateUpdated      HostState = "updated"
	StateUpdateFailed HostState = "update_failed"
)

// Terminal reports whether no further transition can happen.
func (s HostState) Terminal() bool {
	switch s {
	case StateUnresolvable, StateUpToDate, StateUpdated, StateUpdateFailed:
		return true
	default:
		return false
	}
}

// Succeeded reports whether the hostname ended up pointing at the address.
func (s HostState) Succeeded() bool {
	return s == StateUpToDate || s == StateUpdated
}

// Action is the mutation issued for a hostname, if any.
type Action string

const (
	ActionNone       Action = ""
	ActionCreate     Action = "create"
	ActionEditByName Action = "edit_by_name"
	ActionEdit       Action = "edit"
)

// HostResult holds the outcome for a single hostname.
type HostResult struct {
	Hostname   string
	Zone       string
	Subdomain  string
	RecordType string
	State      HostState
	Action     Action
	Err        error
}

func (h HostResult) String() string {
	if h.Err != nil {
		return fmt.Sprintf("[%s] %s %s (%s): %v", h.State, h.RecordType, h.Hostname, h.Zone, h.Err)
	}
	return fmt.Sprintf("[%s] %s %s (%s)", h.State, h.RecordType, h.Hostname, h.Zone)
}

// Result holds the outcome of one Sync run.
type Result struct {
	Address   string
	Hosts     []HostResult
	StartTime time.Time
	EndTime   time.Time
}

func NewResult(address string) *Result {
	return &Result{
		Address:   address,
		Hosts:     make([]HostResult, 0),
		StartTime: time.Now(),
	}
}

func (r *Result) Add(h HostResult) {
	r.Hosts = append(r.Hosts, h)
}

func (r *Result) Complete() {
	r.EndTime = time.Now()
}

func (r *Result) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

// Success is true only if every hostname is up to date or was updated.
func (r *Result) Success() bool {
	if len(r.Hosts) == 0 {
		return false
	}
	for i := range r.Hosts {
		if !r.Hosts[i].State.Succeeded() {
			return false
		}
	}
	return true
}

// Updated returns the hostnames that were changed by this run.
func (r *Result) Updated() []HostResult {
	return r.filter(StateUpdated)
}

// Failed returns the hostnames that did not reach the address.
func (r *Result) Failed() []HostResult {
	var hosts []HostResult
	for i := range r.Hosts {
		if !r.Hosts[i].State.Succeeded() {
			hosts = append(hosts, r.Hosts[i])
		}
	}
	return hosts
}

func (r *Result) filter(state HostState) []HostResult {
	var hosts []HostResult
	for i := range r.Hosts {
		if r.Hosts[i].State == state {
			hosts = append(hosts, r.Hosts[i])
		}
	}
	return hosts
}
