package config

import (
	"fmt"
	"runtime"
)

var (
	version = "dev"
	AppName = "PorkbunDDNS"
	intro   = "A dynamic DNS updater for Porkbun and friends."
	date    = "unknown"
)

func Version() string {
	return version
}

func ShowVersion() {
	fmt.Printf("%s %s (%s), built at %s\n%s\n", AppName, version, runtime.Version(), date, intro)
}
