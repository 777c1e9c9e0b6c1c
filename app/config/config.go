package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Strum355/log"

	"github.com/spf13/viper"
)

func Load() error {
	InitDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return nil
}

func PrintSettings() {
	// Print settings with secrets redacted
	settings := viper.AllSettings()
	redact(settings, "auth", "tokenvalue")
	redact(settings, "mcpdeploy", "secret")
	redact(settings, "vault", "token")

	out, _ := json.MarshalIndent(settings, "", "\t")
	log.Debug(fmt.Sprintf("config:\n%s", string(out)))
}

func redact(settings map[string]interface{}, section, key string) {
	m, ok := settings[section].(map[string]interface{})
	if !ok {
		return
	}
	if s, ok := m[key].(string); ok && s != "" {
		m[key] = "[redacted]"
	}
}
