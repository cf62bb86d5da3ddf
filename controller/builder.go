package controller

import (
	"fmt"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/app/address"
	"github.com/Septrum101/porkbunDDNS/app/service"
	"github.com/Septrum101/porkbunDDNS/app/state"
	"github.com/Septrum101/porkbunDDNS/common/notify"
	"github.com/Septrum101/porkbunDDNS/common/notify/pushplus"
	"github.com/Septrum101/porkbunDDNS/common/notify/telegram"
	"github.com/Septrum101/porkbunDDNS/config"
)

func buildStore(c *config.Config) (state.Store, error) {
	if c.StateFile == "" {
		return state.NewMemoryStore(), nil
	}
	return state.Open(c.StateFile)
}

func (s *Server) buildAccounts(c *config.Config) error {
	for i := range c.Accounts {
		a := account.New(c.Accounts[i], s.store)
		if _, err := s.registry.Match(a); err != nil {
			return fmt.Errorf("account %q: %w", a.Description, err)
		}
		s.accounts = append(s.accounts, a)
	}
	return nil
}

func buildSource(c *config.Config) (address.Source, error) {
	a := c.Address
	switch a.Source {
	case "static":
		return address.Static{V4: a.V4, V6: a.V6}, nil
	case "web", "":
		return address.NewWeb(a.URLs, nil), nil
	case "dns":
		return address.DNS{Nameserver: a.Nameserver}, nil
	case "porkbun":
		// borrow the keys of the first Porkbun account
		for _, acc := range c.Accounts {
			id := service.KindPorkbun.ID()
			if (acc.Service == id || acc.Service == service.KindPorkbunZone.ID()) && acc.Username != "" && acc.Password != "" {
				return address.NewPorkbun(acc.Username, acc.Password), nil
			}
		}
		return nil, fmt.Errorf("address source porkbun needs a porkbun account with credentials")
	default:
		return nil, fmt.Errorf("unknown address source %q", a.Source)
	}
}

func buildNotifier(c *config.Config) notify.Notify {
	if c.Notify == nil || !c.Notify.Enable {
		return nil
	}

	switch c.Notify.Provider {
	case "pushplus":
		return &pushplus.PushPlus{Token: c.Notify.Config["pushplus_token"]}
	case "telegram":
		return &telegram.Telegram{
			ApiHost: c.Notify.Config["telegram_apihost"],
			ChatID:  c.Notify.Config["telegram_chatid"],
			Token:   c.Notify.Config["telegram_token"],
		}
	}
	return nil
}
