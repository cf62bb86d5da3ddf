package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/porkbunDDNS/app/service"
	"github.com/Septrum101/porkbunDDNS/common/metrics"
	"github.com/Septrum101/porkbunDDNS/config"
)

func New(c *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cron:     cron.New(),
		interval: c.Interval,
		networks: c.Address.Networks,
	}
	for _, opt := range opts {
		opt(s)
	}

	// init log level
	if l, err := log.ParseLevel(c.LogLevel); err != nil {
		return nil, err
	} else {
		log.SetLevel(l)
		fmt.Printf("Log level: %s  (Concurrent: %d)\n", c.LogLevel, c.Concurrent)
	}

	var err error
	if s.registry == nil {
		s.registry = service.Default()
	}
	if s.store == nil {
		if s.store, err = buildStore(c); err != nil {
			return nil, err
		}
	}
	if s.source == nil {
		if s.source, err = buildSource(c); err != nil {
			return nil, err
		}
	}
	if s.notifier == nil {
		s.notifier = buildNotifier(c)
	}
	if err := s.buildAccounts(c); err != nil {
		return nil, err
	}

	if s.pool, err = ants.NewPool(c.Concurrent); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) Start() {
	// On init start, do once check
	defer s.task()
	s.Lock()
	s.running = true
	s.Unlock()

	// cron check
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", s.interval), s.task); err != nil {
		log.Panic(err)
	}

	s.cron.Start()
	log.Warnln(config.AppName, "Started")
}

func (s *Server) task() {
	if s.cronRunning.Load() {
		log.Warn("previous run is still in progress, skip")
		return
	}

	s.cronRunning.Store(true)
	defer s.cronRunning.Store(false)

	s.RunOnce(context.Background())
}

// RunOnce resolves the address of every network and runs every account
// against it.
func (s *Server) RunOnce(ctx context.Context) []*report {
	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	var reports []*report
	for _, network := range s.networks {
		addr, err := s.source.Lookup(ctx, network)
		if err != nil {
			log.Errorf("lookup %s address: %v", network, err)
			continue
		}
		log.Debugf("current %s address is %s", network, addr)

		for i := range s.accounts {
			a := s.accounts[i].ForAddress(addr)

			s.wg.Add(1)
			err := s.pool.Submit(func() {
				defer s.wg.Done()
				r := s.runAccount(ctx, a)

				s.Lock()
				reports = append(reports, r)
				s.Unlock()
			})
			if err != nil {
				s.wg.Done()
				log.Error(err)
			}
		}
	}
	s.wg.Wait()

	s.notify(reports)
	return reports
}

func (s *Server) notify(reports []*report) {
	if s.notifier == nil {
		return
	}

	var lines []string
	for _, r := range reports {
		if r.result == nil {
			continue
		}
		for _, h := range r.result.Updated() {
			lines = append(lines, fmt.Sprintf("%s: %s %s -> %s", r.account, h.RecordType, h.Hostname, r.address))
		}
	}
	if len(lines) == 0 {
		return
	}

	if err := s.notifier.Webhook("DNS records updated", strings.Join(lines, "\n")); err != nil {
		log.Error(err)
	}
}

func (s *Server) Close() {
	log.Infoln(config.AppName, "Closing..")
	entry := s.cron.Entries()
	for i := range entry {
		s.cron.Remove(entry[i].ID)
	}
	<-s.cron.Stop().Done()
	s.pool.Release()

	s.Lock()
	s.running = false
	s.Unlock()
}

func (s *Server) Running() bool {
	s.RLock()
	defer s.RUnlock()
	return s.running
}

// skipped reports whether err only means there was nothing to do.
func skipped(err error) bool {
	return errors.Is(err, service.ErrPrecheck)
}
