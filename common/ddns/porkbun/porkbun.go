// Package porkbun is a client for the Porkbun JSON API v3.
package porkbun

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/Septrum101/porkbunDDNS/common/metrics"
)

const (
	DefaultBaseURL = "https://api.porkbun.com/api/json/v3"
	// IPv4BaseURL only answers over IPv4, which pins the address reported by Ping.
	IPv4BaseURL    = "https://api-ipv4.porkbun.com/api/json/v3"
	DefaultTimeout = 10 * time.Second
)

type Client struct {
	apiKey    string
	secretKey string
	client    *resty.Client
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.client.SetBaseURL(url)
	}
}

// WithHTTPClient replaces the underlying transport client. The fixed timeout still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = newResty(resty.NewWithClient(hc), c.client.BaseURL)
	}
}

func New(apiKey string, secretKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		secretKey: secretKey,
		client:    newResty(resty.New(), DefaultBaseURL),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func newResty(cli *resty.Client, baseURL string) *resty.Client {
	return cli.SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetLogger(log.StandardLogger())
}

func (c *Client) BaseURL() string {
	return c.client.BaseURL
}

// Call POSTs payload to endpoint. It never fails: transport and decoding
// errors are reported as a response with status ERROR.
func (c *Client) Call(ctx context.Context, endpoint string, payload map[string]any) *Response {
	rtn := c.call(ctx, endpoint, payload)
	metrics.APICallsTotal.WithLabelValues("porkbun", operation(endpoint), rtn.Status).Inc()
	return rtn
}

func (c *Client) call(ctx context.Context, endpoint string, payload map[string]any) *Response {
	rtn := &Response{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(rtn).
		SetError(rtn).
		ForceContentType("application/json").
		Post("/" + endpoint)
	if err != nil {
		return &Response{Status: StatusError, Message: err.Error()}
	}
	if rtn.Status == "" {
		return &Response{
			Status:  StatusError,
			Message: fmt.Sprintf("unexpected response, status code: %d", resp.StatusCode()),
		}
	}

	return rtn
}

func (c *Client) payload(extra map[string]any) map[string]any {
	p := map[string]any{
		"apikey":       c.apiKey,
		"secretapikey": c.secretKey,
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

// Ping checks the credentials and reports the caller's IP address.
func (c *Client) Ping(ctx context.Context) *Response {
	return c.Call(ctx, "ping", c.payload(nil))
}

// RetrieveByNameType lists the records of recordType at subdomain. An empty
// subdomain addresses the zone apex.
func (c *Client) RetrieveByNameType(ctx context.Context, zone, recordType, subdomain string) *Response {
	return c.Call(ctx, nameTypePath("dns/retrieveByNameType", zone, recordType, subdomain), c.payload(nil))
}

func (c *Client) EditByNameType(ctx context.Context, zone, recordType, subdomain, content string) *Response {
	return c.Call(ctx, nameTypePath("dns/editByNameType", zone, recordType, subdomain), c.payload(map[string]any{
		"type":    recordType,
		"content": content,
	}))
}

func (c *Client) Edit(ctx context.Context, zone, id, recordType, content string) *Response {
	return c.Call(ctx, fmt.Sprintf("dns/edit/%s/%s", zone, id), c.payload(map[string]any{
		"type":    recordType,
		"content": content,
	}))
}

func (c *Client) Create(ctx context.Context, zone, name, recordType, content string) *Response {
	return c.Call(ctx, fmt.Sprintf("dns/create/%s", zone), c.payload(map[string]any{
		"name":    name,
		"type":    recordType,
		"content": content,
	}))
}

// the API rejects a trailing slash when subdomain is empty
func nameTypePath(prefix, zone, recordType, subdomain string) string {
	return strings.TrimRight(fmt.Sprintf("%s/%s/%s/%s", prefix, zone, recordType, subdomain), "/")
}

// operation strips the arguments from an endpoint, e.g. dns/edit/example.com/1 -> dns/edit.
func operation(endpoint string) string {
	parts := strings.SplitN(endpoint, "/", 3)
	if len(parts) > 1 && parts[0] == "dns" {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
