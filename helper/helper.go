package helper

import (
	"net/netip"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/idna"
)

// ParseHostnames splits a comma separated hostname list. Entries are trimmed,
// converted to their ASCII form and lower-cased; empty entries are dropped.
func ParseHostnames(s string) []string {
	var hostnames []string
	for _, h := range strings.Split(s, ",") {
		h = strings.TrimSuffix(strings.TrimSpace(h), ".")
		if h == "" {
			continue
		}
		ascii, err := idna.Lookup.ToASCII(h)
		if err != nil {
			log.Warnf("hostname %s is not a valid domain name: %v", h, err)
			ascii = h
		}
		hostnames = append(hostnames, strings.ToLower(ascii))
	}
	return hostnames
}

// ParseIP validates an address for network ("tcp4", "tcp6" or "" for either)
// and returns its canonical text form.
func ParseIP(network string, s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	addr = addr.Unmap()

	switch network {
	case "tcp4":
		if !addr.Is4() {
			return "", false
		}
	case "tcp6":
		if !addr.Is6() {
			return "", false
		}
	}
	return addr.String(), true
}

// Network returns the network an address belongs to.
func Network(addr string) string {
	if strings.Contains(addr, ":") {
		return "tcp6"
	}
	return "tcp4"
}
