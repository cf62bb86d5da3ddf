package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/porkbunDDNS/helper"
)

var DefaultURLs = []string{
	"https://api64.ipify.org",
	"https://ifconfig.co/ip",
	"https://icanhazip.com",
}

// Web asks check-ip services for the address; the first valid answer wins.
// Bodies are either the bare address or a JSON object with an "ip" field.
type Web struct {
	urls    []string
	clients map[string]*resty.Client
}

// NewWeb pins each lookup to its address family. A non nil hc replaces the
// family specific transports.
func NewWeb(urls []string, hc *http.Client) *Web {
	if len(urls) == 0 {
		urls = DefaultURLs
	}

	w := &Web{urls: urls, clients: make(map[string]*resty.Client)}
	for _, network := range []string{"tcp4", "tcp6"} {
		var cli *resty.Client
		if hc != nil {
			cli = resty.NewWithClient(hc)
		} else {
			cli = resty.New().SetTransport(pinnedTransport(network))
		}
		w.clients[network] = cli.
			SetTimeout(10*time.Second).
			SetLogger(log.StandardLogger()).
			SetHeader("Accept", "text/plain, application/json")
	}
	return w
}

func pinnedTransport(network string) *http.Transport {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	return tr
}

func (w *Web) Lookup(ctx context.Context, network string) (string, error) {
	cli, ok := w.clients[network]
	if !ok {
		return "", fmt.Errorf("unsupported network %q", network)
	}

	var errs []error
	for _, url := range w.urls {
		addr, err := w.lookup(ctx, cli, url, network)
		if err == nil {
			return addr, nil
		}
		log.Debugf("lookup %s address from %s: %v", network, url, err)
		errs = append(errs, fmt.Errorf("%s: %w", url, err))
	}
	return "", fmt.Errorf("%w: %w", ErrNoAddress, errors.Join(errs...))
}

func (w *Web) lookup(ctx context.Context, cli *resty.Client, url string, network string) (string, error) {
	resp, err := cli.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("status code %d", resp.StatusCode())
	}

	body := strings.TrimSpace(resp.String())
	if strings.HasPrefix(body, "{") {
		var v struct {
			IP string `json:"ip"`
		}
		if err := json.Unmarshal(resp.Body(), &v); err != nil {
			return "", err
		}
		body = v.IP
	}

	addr, ok := helper.ParseIP(network, body)
	if !ok {
		return "", fmt.Errorf("invalid %s address %q", network, body)
	}
	return addr, nil
}
