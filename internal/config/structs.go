package config

import (
	"time"

	"github.com/GoLibraryAdmin/GoLibraryAdmin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool       `mapstructure:"devMode"   toml:"devMode"   json:"devMode"` // enable dev mode for development
	DB        DB         `mapstructure:"db"        toml:"db"        json:"db"`
	Log       logger.Log `mapstructure:"log"       toml:"log"       json:"log"`
	Webserver Webserver  `mapstructure:"webserver" toml:"webserver" json:"webserver"`
	Directory Directory  `mapstructure:"directory" toml:"directory" json:"directory"`
	Token     Token      `mapstructure:"token"     toml:"token"     json:"token"`
	Sync      Sync       `mapstructure:"sync"      toml:"sync"      json:"sync"`
	Redis     Redis      `mapstructure:"redis"     toml:"redis"     json:"redis"`
}

// Webserver implement webserver settings.
type Webserver struct {
	Host           string `mapstructure:"host"           toml:"host"           json:"host"`                                     // listening address, empty for all interfaces
	Port           int    `mapstructure:"port"           toml:"port"           json:"port"           validate:"lte=65535"`      // listening port for the webserver
	URL            string `mapstructure:"url"            toml:"url"            json:"url"`                                      // base url for the webserver
	ShutDownTime   int    `mapstructure:"shutDownTime"   toml:"shutDownTime"   json:"shutDownTime"   validate:"gte=0"`          // seconds to report unhealthy before stopping
	DisableRecover bool   `mapstructure:"disableRecover" toml:"disableRecover" json:"disableRecover"`                           // disable recover middleware
	BodyLimit      int    `mapstructure:"bodyLimit"      toml:"bodyLimit"      json:"bodyLimit"      validate:"gte=0"`          // max request body in bytes
	CORSOrigins    string `mapstructure:"corsOrigins"    toml:"corsOrigins"    json:"corsOrigins"`                              // comma separated, empty disables CORS
}

// Directory configures the connection to the LDAP / Active Directory server.
type Directory struct {
	Host       string `mapstructure:"host"       toml:"host"       json:"host"       validate:"required"`
	Port       int    `mapstructure:"port"       toml:"port"       json:"port"       validate:"gte=0,lte=65535"`
	UseSSL     bool   `mapstructure:"useSSL"     toml:"useSSL"     json:"useSSL"`     // ldaps
	UseTLS     bool   `mapstructure:"useTLS"     toml:"useTLS"     json:"useTLS"`     // StartTLS on a plain connection
	SkipVerify bool   `mapstructure:"skipVerify" toml:"skipVerify" json:"skipVerify"` // do not verify the server certificate
	BaseDN     string `mapstructure:"baseDN"     toml:"baseDN"     json:"baseDN"     validate:"required"`
	Domain     string `mapstructure:"domain"     toml:"domain"     json:"domain"`  // DNS domain used for user@domain principals
	NetBIOS    string `mapstructure:"netbios"    toml:"netbios"    json:"netbios"` // NetBIOS domain used for DOMAIN\user principals

	AdminUser      string   `mapstructure:"adminUser"      toml:"adminUser"      json:"adminUser"      validate:"required"`
	AdminPassword  string   `mapstructure:"adminPassword"  toml:"adminPassword"  json:"adminPassword"  validate:"required"`
	BindFormats    []string `mapstructure:"bindFormats"    toml:"bindFormats"    json:"bindFormats"    validate:"dive,oneof=upn dn short netbios"`
	UserBindFormat string   `mapstructure:"userBindFormat" toml:"userBindFormat" json:"userBindFormat" validate:"omitempty,oneof=upn dn short netbios"`

	// Candidates are host:port endpoints tried in order when Host is unreachable.
	Candidates        []string      `mapstructure:"candidates"        toml:"candidates"        json:"candidates"`
	ProbeTimeout      time.Duration `mapstructure:"probeTimeout"      toml:"probeTimeout"      json:"probeTimeout"      validate:"gte=0"`
	DiscoveryCooldown time.Duration `mapstructure:"discoveryCooldown" toml:"discoveryCooldown" json:"discoveryCooldown" validate:"gte=0"`
	Timeout           time.Duration `mapstructure:"timeout"           toml:"timeout"           json:"timeout"           validate:"gte=0"` // search time limit
	PageSize          uint32        `mapstructure:"pageSize"          toml:"pageSize"          json:"pageSize"`

	Groups Groups `mapstructure:"groups" toml:"groups" json:"groups"`
}

// Groups holds the group name keywords mapped to roles. Empty lists use the built-in keywords.
type Groups struct {
	Admin     []string `mapstructure:"admin"     toml:"admin"     json:"admin"`
	Librarian []string `mapstructure:"librarian" toml:"librarian" json:"librarian"`
	Staff     []string `mapstructure:"staff"     toml:"staff"     json:"staff"`
}

// Token configures the session tokens handed out on login.
type Token struct {
	Secret string        `mapstructure:"secret" toml:"secret" json:"secret"` // HS256 signing secret, generated per process in dev mode if empty
	TTL    time.Duration `mapstructure:"ttl"    toml:"ttl"    json:"ttl"    validate:"gte=0"`
	Issuer string        `mapstructure:"issuer" toml:"issuer" json:"issuer"`
}

// Sync configures the scheduled full directory sync.
type Sync struct {
	Enabled  bool   `mapstructure:"enabled"  toml:"enabled"  json:"enabled"`
	Schedule string `mapstructure:"schedule" toml:"schedule" json:"schedule" validate:"required_if=Enabled true"` // cron spec or @every
}

// Redis configures the optional store shared by several instances for bind format and
// discovery hints. An empty Addr disables it.
type Redis struct {
	Addr     string `mapstructure:"addr"     toml:"addr"     json:"addr"     validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password" toml:"password" json:"password"`
	DB       int    `mapstructure:"db"       toml:"db"       json:"db"       validate:"gte=0"`
}
