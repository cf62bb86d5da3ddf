package controller

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/app/address"
	"github.com/Septrum101/porkbunDDNS/app/service"
	"github.com/Septrum101/porkbunDDNS/app/state"
	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/notify/pushplus"
	"github.com/Septrum101/porkbunDDNS/common/notify/telegram"
	"github.com/Septrum101/porkbunDDNS/config"
)

// memBackend is a concurrency safe provider holding records by fqdn/type.
type memBackend struct {
	sync.Mutex
	zone    string
	records map[string]string
	edits   int
}

func newMemBackend(zone string) *memBackend {
	return &memBackend{zone: zone, records: make(map[string]string)}
}

func (m *memBackend) RetrieveByNameType(_ context.Context, zone, recordType, subdomain string) *ddns.Reply {
	m.Lock()
	defer m.Unlock()

	if zone != m.zone {
		return &ddns.Reply{Message: "Invalid domain."}
	}
	content, ok := m.records[ddns.FQDN(subdomain, zone)+"/"+recordType]
	if !ok {
		return &ddns.Reply{OK: true}
	}
	return &ddns.Reply{OK: true, Records: []ddns.Record{{ID: "1", Content: content}}}
}

func (m *memBackend) set(zone, recordType, subdomain, content string) *ddns.Reply {
	m.Lock()
	defer m.Unlock()

	m.edits++
	m.records[ddns.FQDN(subdomain, zone)+"/"+recordType] = content
	return &ddns.Reply{OK: true}
}

func (m *memBackend) EditByNameType(_ context.Context, zone, recordType, subdomain, content string) *ddns.Reply {
	return m.set(zone, recordType, subdomain, content)
}

func (m *memBackend) Edit(_ context.Context, zone, _, recordType, content string) *ddns.Reply {
	return m.set(zone, recordType, "", content)
}

func (m *memBackend) Create(_ context.Context, zone, subdomain, recordType, content string) *ddns.Reply {
	return m.set(zone, recordType, subdomain, content)
}

type fakeNotifier struct {
	titles   []string
	contents []string
}

func (f *fakeNotifier) Webhook(title string, content string) error {
	f.titles = append(f.titles, title)
	f.contents = append(f.contents, content)
	return nil
}

func testConfig(accounts ...*config.Account) *config.Config {
	return &config.Config{
		LogLevel:   "debug",
		Interval:   60,
		Concurrent: 2,
		Address: &config.Address{
			Source:   "static",
			Networks: []string{"tcp4", "tcp6"},
			V4:       "203.0.113.5",
			V6:       "2001:db8::1",
		},
		Accounts: accounts,
	}
}

func newTestServer(t *testing.T, c *config.Config, b *memBackend, n *fakeNotifier) *Server {
	registry := service.NewRegistry(service.New(service.KindPorkbunZone,
		func(*account.Account) (ddns.Backend, error) { return b, nil }))

	opts := []Option{WithRegistry(registry), WithStore(state.NewMemoryStore())}
	if n != nil {
		opts = append(opts, WithNotifier(n))
	}
	s, err := New(c, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.pool.Release() })
	return s
}

func TestRunOnce(t *testing.T) {
	b := newMemBackend("example.com")
	b.records["www.example.com/A"] = "192.0.2.1"
	n := &fakeNotifier{}

	s := newTestServer(t, testConfig(
		&config.Account{Description: "home", Service: "porkbun-zone", Zone: "example.com", Hostnames: "www.example.com", Username: "k", Password: "s"},
		&config.Account{Description: "lab", Service: "porkbun-zone", Zone: "example.com", Hostnames: "lab.example.com", Username: "k", Password: "s"},
	), b, n)

	reports := s.RunOnce(context.Background())

	assert.Len(t, reports, 4)
	for _, r := range reports {
		assert.NoError(t, r.err, r.account)
	}
	assert.Equal(t, "203.0.113.5", b.records["www.example.com/A"])
	assert.Equal(t, "2001:db8::1", b.records["www.example.com/AAAA"])
	assert.Equal(t, "203.0.113.5", b.records["lab.example.com/A"])
	assert.Equal(t, 4, b.edits)

	require.Len(t, n.contents, 1)
	assert.Contains(t, n.contents[0], "home: A www.example.com -> 203.0.113.5")
	assert.Contains(t, n.contents[0], "lab: AAAA lab.example.com -> 2001:db8::1")

	// nothing changed, every account stops at the precheck
	reports = s.RunOnce(context.Background())
	for _, r := range reports {
		assert.ErrorIs(t, r.err, service.ErrPrecheck)
	}
	assert.Equal(t, 4, b.edits)
	assert.Len(t, n.contents, 1)
}

func TestRunOnceSkipsFailedLookup(t *testing.T) {
	b := newMemBackend("example.com")
	c := testConfig(&config.Account{Description: "home", Service: "porkbun-zone", Zone: "example.com", Hostnames: "example.com"})
	c.Address.V6 = ""

	s := newTestServer(t, c, b, nil)

	reports := s.RunOnce(context.Background())

	require.Len(t, reports, 1)
	assert.Equal(t, "203.0.113.5", reports[0].address)
	assert.Equal(t, "203.0.113.5", b.records["example.com/A"])
}

func TestRunOnceReportsFailure(t *testing.T) {
	b := newMemBackend("example.com")
	n := &fakeNotifier{}
	c := testConfig(&config.Account{Description: "home", Service: "porkbun-zone", Zone: "example.com", Hostnames: "www.example.com, www.example.org"})
	c.Address.Networks = []string{"tcp4"}

	s := newTestServer(t, c, b, n)

	reports := s.RunOnce(context.Background())

	require.Len(t, reports, 1)
	assert.ErrorIs(t, reports[0].err, service.ErrIncomplete)
	// the hostname inside the zone was still created and is reported
	require.Len(t, n.contents, 1)
	assert.Equal(t, "home: A www.example.com -> 203.0.113.5", n.contents[0])
}

func TestTaskSkipsOverlappingRun(t *testing.T) {
	b := newMemBackend("example.com")
	s := newTestServer(t, testConfig(&config.Account{Description: "home", Service: "porkbun-zone", Zone: "example.com", Hostnames: "example.com"}), b, nil)

	s.cronRunning.Store(true)
	s.task()

	assert.Zero(t, b.edits)
}

func TestNewRejectsUnknownService(t *testing.T) {
	_, err := New(testConfig(&config.Account{Description: "home", Service: "dyndns"}), WithStore(state.NewMemoryStore()))

	assert.ErrorIs(t, err, service.ErrUnknownService)
}

func TestBuildSource(t *testing.T) {
	c := testConfig(&config.Account{Description: "home", Service: "porkbun", Username: "k", Password: "s"})

	for source, want := range map[string]any{
		"static":  address.Static{},
		"web":     &address.Web{},
		"dns":     address.DNS{},
		"porkbun": &address.Porkbun{},
	} {
		c.Address.Source = source
		src, err := buildSource(c)
		require.NoError(t, err, source)
		assert.IsType(t, want, src, source)
	}

	c.Address.Source = "carrier-pigeon"
	_, err := buildSource(c)
	assert.Error(t, err)

	c.Address.Source = "porkbun"
	c.Accounts[0].Service = "cloudflare"
	_, err = buildSource(c)
	assert.Error(t, err)
}

func TestBuildNotifier(t *testing.T) {
	c := testConfig()
	assert.Nil(t, buildNotifier(c))

	c.Notify = &config.Notify{Enable: true, Provider: "pushplus", Config: map[string]string{"pushplus_token": "t"}}
	assert.IsType(t, &pushplus.PushPlus{}, buildNotifier(c))

	c.Notify = &config.Notify{Enable: true, Provider: "telegram", Config: map[string]string{"telegram_chatid": "1", "telegram_token": "t"}}
	tg, ok := buildNotifier(c).(*telegram.Telegram)
	require.True(t, ok)
	assert.Equal(t, "1", tg.ChatID)

	c.Notify.Enable = false
	assert.Nil(t, buildNotifier(c))
}
