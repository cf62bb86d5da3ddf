package controller

import (
	"context"
	"errors"

	"github.com/Septrum101/porkbunDDNS/app/account"
	"github.com/Septrum101/porkbunDDNS/app/service"
)

func (s *Server) runAccount(ctx context.Context, a *account.Account) *report {
	r := &report{account: a.Description, address: a.CurrentAddress()}

	r.result, r.err = s.registry.Execute(ctx, a)
	switch {
	case r.err == nil:
		a.Logger.Infof("all %d hostnames point to %s", len(r.result.Hosts), r.address)
	case skipped(r.err):
		a.Logger.Debug(r.err)
	case errors.Is(r.err, service.ErrIncomplete):
		for _, h := range r.result.Failed() {
			a.Logger.Warn(h.String())
		}
		a.Logger.Error(r.err)
	default:
		a.Logger.Error(r.err)
	}
	return r
}
