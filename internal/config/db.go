package config

// DB holds the database configuration settings.
type DB struct {
	Extras     string `mapstructure:"extras"     toml:"extras"     json:"extras"`
	Host       string `mapstructure:"host"       toml:"host"       json:"host"`
	Port       int    `mapstructure:"port"       toml:"port"       json:"port"       validate:"gte=0,lte=65535"`
	User       string `mapstructure:"user"       toml:"user"       json:"user"`
	Password   string `mapstructure:"password"   toml:"password"   json:"password"`
	Name       string `mapstructure:"name"       toml:"name"       json:"name"       validate:"required"`
	GormEngine string `mapstructure:"gormEngine" toml:"gormEngine" json:"gormEngine" validate:"omitempty,oneof=mysql postgres sqlite"`
}
