package config

type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http" validate:"required"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"required"`
}
