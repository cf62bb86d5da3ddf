package controller

import (
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/app/address"
	"github.com/Septrum101/porkbunDDNS/app/service"
	"github.com/Septrum101/porkbunDDNS/app/state"
	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/notify"
)

type Server struct {
	sync.RWMutex
	running     bool
	interval    int
	networks    []string
	accounts    []*account.Account
	registry    *service.Registry
	source      address.Source
	store       state.Store
	notifier    notify.Notify
	cron        *cron.Cron
	cronRunning atomic.Bool
	pool        *ants.Pool
	wg          sync.WaitGroup
}

// report is the outcome of one account run.
type report struct {
	account string
	address string
	result  *ddns.Result
	err     error
}

type Option func(*Server)

func WithRegistry(r *service.Registry) Option {
	return func(s *Server) {
		s.registry = r
	}
}

func WithSource(src address.Source) Option {
	return func(s *Server) {
		s.source = src
	}
}

func WithStore(st state.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

func WithNotifier(n notify.Notify) Option {
	return func(s *Server) {
		s.notifier = n
	}
}
