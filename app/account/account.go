// Package account holds the per account settings and the shared gate run
// before any provider specific work.
package account

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/porkbunDDNS/app/state"
	"github.com/Septrum101/porkbunDDNS/config"
	"github.com/Septrum101/porkbunDDNS/helper"
)

type Account struct {
	Description   string
	Service       string
	Username      string
	Password      string
	Hostnames     []string
	Zone          string
	Region        string
	Verbose       bool
	Enabled       bool
	ForceInterval time.Duration
	Logger        *log.Entry

	store   state.Store
	address string
	now     func() time.Time
}

func New(c *config.Account, store state.Store) *Account {
	if store == nil {
		store = state.NewMemoryStore()
	}

	return &Account{
		Description:   c.Description,
		Service:       c.Service,
		Username:      c.Username,
		Password:      c.Password,
		Hostnames:     helper.ParseHostnames(c.Hostnames),
		Zone:          c.Zone,
		Region:        c.Region,
		Verbose:       c.Verbose,
		Enabled:       c.IsEnabled(),
		ForceInterval: time.Duration(c.ForceInterval) * time.Second,
		Logger:        log.WithField("account", c.Description),
		store:         store,
		now:           time.Now,
	}
}

// ForAddress returns a copy of the account bound to address. The copy shares
// the state store, so runs for different address families do not race on
// the current address.
func (a *Account) ForAddress(address string) *Account {
	cp := *a
	cp.SetCurrentAddress(address)
	return &cp
}

func (a *Account) SetCurrentAddress(address string) {
	a.address = address
	a.Logger = a.Logger.WithField("network", helper.Network(address))
}

func (a *Account) CurrentAddress() string {
	return a.address
}

// LastState returns the state persisted for the current address family.
func (a *Account) LastState() (state.Entry, bool) {
	return a.store.Get(a.stateKey(a.address))
}

// Precheck decides whether the account should run at all: it must be
// enabled, hold a valid address, and that address must differ from the last
// applied one unless ForceInterval has elapsed since.
func (a *Account) Precheck() bool {
	if !a.Enabled {
		a.Logger.Debug("account is disabled")
		return false
	}

	addr, ok := helper.ParseIP("", a.address)
	if !ok {
		a.Logger.Errorf("invalid current address %q", a.address)
		return false
	}
	a.address = addr

	last, ok := a.LastState()
	if !ok || last.Address != addr {
		return true
	}
	if a.ForceInterval > 0 && a.now().Sub(last.UpdatedAt) >= a.ForceInterval {
		a.Logger.Infof("forcing update of %s after %s", addr, a.ForceInterval)
		return true
	}

	a.Logger.Debugf("address %s unchanged since %s", addr, last.UpdatedAt.Format(time.RFC3339))
	return false
}

// UpdateState records address as applied for the account.
func (a *Account) UpdateState(address string) error {
	return a.store.Set(a.stateKey(address), state.Entry{Address: address, UpdatedAt: a.now()})
}

func (a *Account) stateKey(address string) string {
	return a.Description + "/" + helper.Network(address)
}
