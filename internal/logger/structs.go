package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	// Pretty switches from JSON lines to zerolog's human readable ConsoleWriter.
	Pretty bool `mapstructure:"pretty" toml:"pretty" json:"pretty"`
}

// Rotation configures one rolling log file.
type Rotation struct {
	File       string `mapstructure:"file"       toml:"file"       json:"file"`
	MaxSize    int    `mapstructure:"maxSize"    toml:"maxSize"    json:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" toml:"maxBackups" json:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"     toml:"maxAge"     json:"maxAge"` // days
}

// LogFile implements a file based logger, split by level.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    toml:"path"    json:"path"`

	Access Rotation `mapstructure:"access" toml:"access" json:"access"`
	Error  Rotation `mapstructure:"error"  toml:"error"  json:"error"`
	Info   Rotation `mapstructure:"info"   toml:"info"   json:"info"`
	Trace  Rotation `mapstructure:"trace"  toml:"trace"  json:"trace"`
	Warn   Rotation `mapstructure:"warn"   toml:"warn"   json:"warn"`
}

// Log implements the logger config.
type Log struct {
	Level string `mapstructure:"level" toml:"level" json:"level"` // trace, debug, info, warn, error

	// AccessLogToConsole also writes HTTP access logs to the console when the console is enabled.
	AccessLogToConsole bool `mapstructure:"accessLogToConsole" toml:"accessLogToConsole" json:"accessLogToConsole"`
	ReportCaller       bool `mapstructure:"reportCaller"       toml:"reportCaller"       json:"reportCaller"`
	DisableCheckAlive  bool `mapstructure:"disableCheckAlive"  toml:"disableCheckAlive"  json:"disableCheckAlive"` // do not log /checkalive calls

	ServiceName string `mapstructure:"serviceName" toml:"serviceName" json:"serviceName"`

	Console Console `mapstructure:"console" toml:"console" json:"console"`
	File    LogFile `mapstructure:"file"    toml:"file"    json:"file"`
}
