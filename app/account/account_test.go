package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Septrum101/porkbunDDNS/app/state"
	"github.com/Septrum101/porkbunDDNS/config"
)

func newAccount(c *config.Account) (*Account, *state.MemoryStore) {
	store := state.NewMemoryStore()
	if c.Description == "" {
		c.Description = "home"
	}
	return New(c, store), store
}

func TestNew(t *testing.T) {
	disabled := false
	a, _ := newAccount(&config.Account{
		Service:       "porkbun-zone",
		Username:      "pk1",
		Password:      "sk1",
		Hostnames:     " WWW.example.com, ,example.com ",
		Zone:          "example.com",
		Enabled:       &disabled,
		ForceInterval: 3600,
	})

	assert.Equal(t, []string{"www.example.com", "example.com"}, a.Hostnames)
	assert.False(t, a.Enabled)
	assert.Equal(t, time.Hour, a.ForceInterval)
	assert.Equal(t, "home", a.Logger.Data["account"])
}

func TestPrecheck(t *testing.T) {
	a, _ := newAccount(&config.Account{})

	a.SetCurrentAddress("")
	assert.False(t, a.Precheck(), "empty address")

	a.SetCurrentAddress("not-an-ip")
	assert.False(t, a.Precheck(), "invalid address")

	a.SetCurrentAddress("203.0.113.5")
	assert.True(t, a.Precheck(), "no previous state")

	a.Enabled = false
	assert.False(t, a.Precheck(), "disabled")
}

func TestPrecheckUnchangedAddress(t *testing.T) {
	a, _ := newAccount(&config.Account{})
	a.SetCurrentAddress("203.0.113.5")
	require.NoError(t, a.UpdateState("203.0.113.5"))

	assert.False(t, a.Precheck())

	a.SetCurrentAddress("203.0.113.6")
	assert.True(t, a.Precheck())
}

func TestPrecheckForceInterval(t *testing.T) {
	a, _ := newAccount(&config.Account{ForceInterval: 60})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	a.SetCurrentAddress("203.0.113.5")
	require.NoError(t, a.UpdateState("203.0.113.5"))
	assert.False(t, a.Precheck())

	now = now.Add(time.Minute)
	assert.True(t, a.Precheck())
}

func TestStateIsPerAddressFamily(t *testing.T) {
	a, store := newAccount(&config.Account{})

	v4 := a.ForAddress("203.0.113.5")
	v6 := a.ForAddress("2001:db8::1")
	require.NoError(t, v4.UpdateState("203.0.113.5"))

	assert.False(t, v4.Precheck())
	assert.True(t, v6.Precheck())
	assert.Equal(t, "", a.CurrentAddress())

	e, ok := store.Get("home/tcp4")
	require.True(t, ok)
	assert.Equal(t, "203.0.113.5", e.Address)
}

func TestPrecheckCanonicalizesAddress(t *testing.T) {
	a, _ := newAccount(&config.Account{})
	a.SetCurrentAddress(" 2001:DB8::1 ")

	require.True(t, a.Precheck())
	assert.Equal(t, "2001:db8::1", a.CurrentAddress())
}
