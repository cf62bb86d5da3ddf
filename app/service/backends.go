package service

import (
	cf "github.com/cloudflare/cloudflare-go"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/common/ddns"
	"github.com/Septrum101/porkbunDDNS/common/ddns/cloudflare"
	"github.com/Septrum101/porkbunDDNS/common/ddns/lightsail"
	"github.com/Septrum101/porkbunDDNS/common/ddns/porkbun"
)

// Porkbun discovers the zone of every hostname and never creates records.
func Porkbun(opts ...porkbun.Option) Service {
	return New(KindPorkbun, porkbunBackend(opts))
}

// PorkbunZone uses the configured zone and creates missing records.
func PorkbunZone(opts ...porkbun.Option) Service {
	return New(KindPorkbunZone, porkbunBackend(opts))
}

func porkbunBackend(opts []porkbun.Option) BackendFunc {
	return func(a *account.Account) (ddns.Backend, error) {
		if a.Username == "" || a.Password == "" {
			return nil, ErrMissingCredentials
		}
		return porkbun.NewBackend(porkbun.New(a.Username, a.Password, opts...)), nil
	}
}

// Cloudflare authenticates with the API token held in Password.
func Cloudflare(opts ...cf.Option) Service {
	return New(KindCloudflare, func(a *account.Account) (ddns.Backend, error) {
		if a.Password == "" {
			return nil, ErrMissingCredentials
		}
		return cloudflare.New(a.Password, opts...)
	})
}

// Lightsail authenticates with the access key id in Username and the
// secret in Password.
func Lightsail() Service {
	return New(KindLightsail, func(a *account.Account) (ddns.Backend, error) {
		if a.Username == "" || a.Password == "" {
			return nil, ErrMissingCredentials
		}
		return lightsail.New(a.Username, a.Password, a.Region)
	})
}
