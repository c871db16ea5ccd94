package util

import (
	"time"

	"github.com/spf13/viper"
)

// Config is an alias for the config package.
type Config = *viper.Viper

// Defaults for the kiosk. They mirror a single kiosk bound to localhost and
// talking to the lab's records API.
var defaults = map[string]interface{}{
	"ip_address":                "127.0.0.1",
	"http_port":                 8080,
	"records_api_base":          "https://www.ihaclabi.ufba.br/api.php/records",
	"records_allocations_view":  "vwAlocacoes",
	"records_access_collection": "acessos",
	"records_timeout":           15 * time.Second,
	"templates_dir":             "Templates",
	"images_dir":                "Imagens",
	"template_cache_size":       0,
	"broker_enabled":            false,
	"broker_topic_prefix":       "ponto",
}

// InitConfig initializes the config system. Every key can be overridden
// with a PONTO_ prefixed environment variable, e.g. PONTO_HTTP_PORT.
func InitConfig() {
	viper.SetEnvPrefix("ponto")
	viper.AutomaticEnv()
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// AllConfigSettings returns all flags, configs and environment variables.
func AllConfigSettings() map[string]interface{} {
	return viper.AllSettings()
}
