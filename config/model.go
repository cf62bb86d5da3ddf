package config

type Config struct {
	LogLevel      string     `yaml:"LogLevel"`
	Interval      int        `yaml:"Interval"`
	Concurrent    int        `yaml:"Concurrent"`
	StateFile     string     `yaml:"StateFile"`
	MetricsListen string     `yaml:"MetricsListen"`
	Address       *Address   `yaml:"Address"`
	Notify        *Notify    `yaml:"Notify"`
	Accounts      []*Account `yaml:"Accounts"`
}

// Address selects how the current public address is discovered.
type Address struct {
	Source     string   `yaml:"Source"`
	Networks   []string `yaml:"Networks"`
	V4         string   `yaml:"V4"`
	V6         string   `yaml:"V6"`
	URLs       []string `yaml:"URLs"`
	Nameserver string   `yaml:"Nameserver"`
}

type Account struct {
	Description   string `yaml:"Description"`
	Service       string `yaml:"Service"`
	Username      string `yaml:"Username"`
	Password      string `yaml:"Password"`
	Hostnames     string `yaml:"Hostnames"`
	Zone          string `yaml:"Zone"`
	Region        string `yaml:"Region"`
	Verbose       bool   `yaml:"Verbose"`
	Enabled       *bool  `yaml:"Enabled"`
	ForceInterval int    `yaml:"ForceInterval"`
}

// IsEnabled treats a missing Enabled key as true.
func (a *Account) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

type Notify struct {
	Enable   bool              `yaml:"Enable"`
	Provider string            `yaml:"Provider"`
	Config   map[string]string `yaml:"Config"`
}
