// Package mcpconfig renders the JSON configuration consumed by the
// ProxmoxMCP server deployed inside the container. The schema is fixed;
// the provisioner writes the file once and never reads it back.
package mcpconfig

import (
	"encoding/json"

	"github.com/spf13/viper"
)

type Config struct {
	Proxmox ProxmoxSection `json:"proxmox"`
	Auth    AuthSection    `json:"auth"`
	Logging LoggingSection `json:"logging"`
}

type ProxmoxSection struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	VerifySSL bool   `json:"verify_ssl"`
	Service   string `json:"service"`
}

type AuthSection struct {
	User       string `json:"user"`
	TokenName  string `json:"token_name"`
	TokenValue string `json:"token_value"`
}

type LoggingSection struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// FromConfig builds the document from the flat settings. tokenValue is
// passed in rather than read from viper so the caller can substitute a
// secret fetched from Vault.
func FromConfig(tokenValue string) Config {
	return Config{
		Proxmox: ProxmoxSection{
			Host:      viper.GetString("proxmox.host"),
			Port:      viper.GetInt("proxmox.port"),
			VerifySSL: viper.GetBool("proxmox.verifyssl"),
			Service:   viper.GetString("proxmox.service"),
		},
		Auth: AuthSection{
			User:       viper.GetString("auth.user"),
			TokenName:  viper.GetString("auth.tokenname"),
			TokenValue: tokenValue,
		},
		Logging: LoggingSection{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
			File:   viper.GetString("logging.file"),
		},
	}
}

func (c Config) Render() ([]byte, error) {
	out, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
