// Package config holds environment-driven settings for the opskit tools
// and the YAML job files used by the batch chores.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Pool configures the pool safety reporter. The pool name is configured,
// never passed as a flag.
type Pool struct {
	Name             string  `envconfig:"OPSKIT_POOL" default:"tank"`
	RedundancyMarker string  `envconfig:"OPSKIT_POOL_REDUNDANCY" default:"raidz2"`
	CapacityNotePct  float64 `envconfig:"OPSKIT_POOL_CAPACITY_NOTE" default:"80"`
	FragmentNotePct  float64 `envconfig:"OPSKIT_POOL_FRAGMENT_NOTE" default:"50"`
	Debug            bool    `envconfig:"OPSKIT_DEBUG" default:"false"`
}

// Ticket configures the incident ticket client.
type Ticket struct {
	Endpoint string `envconfig:"OPSKIT_TICKET_ENDPOINT" default:"https://jira.example.com/rest/api/2/issue"`
	Project  string `envconfig:"OPSKIT_TICKET_PROJECT" default:"OPS"`
	Username string `envconfig:"OPSKIT_TICKET_USER"`
	Password string `envconfig:"OPSKIT_TICKET_PASS"`
	Retries  int    `envconfig:"OPSKIT_TICKET_RETRIES" default:"3"`
}

// Scan configures the redirect log scanner.
type Scan struct {
	AccessLog   string   `envconfig:"OPSKIT_SCAN_LOG" default:"/var/log/nginx/access.log"`
	Domains     []string `envconfig:"OPSKIT_SCAN_DOMAINS" default:"example.org,example.net"`
	HistoryPath string   `envconfig:"OPSKIT_SCAN_HISTORY" default:"/var/lib/opskit/redirscan.db"`
	NewOnly     bool     `envconfig:"OPSKIT_SCAN_NEW_ONLY" default:"true"`
}

// LoadPool reads the reporter configuration from the environment.
func LoadPool() (*Pool, error) {
	var cfg Pool
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTicket reads the ticket client configuration from the environment.
func LoadTicket() (*Ticket, error) {
	var cfg Ticket
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadScan reads the scanner configuration from the environment.
func LoadScan() (*Scan, error) {
	var cfg Scan
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
