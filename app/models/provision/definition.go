package provision

import (
	"errors"
	"net"
	"regexp"

	"github.com/spf13/viper"
)

var (
	ErrInvalidID       = errors.New("container ID must be a positive integer")
	ErrInvalidHostname = errors.New("container hostname bad format")
	ErrInvalidSizing   = errors.New("container sizing values must be positive")
	ErrInvalidAddress  = errors.New("container ip must be 'dhcp' or CIDR notation")
	ErrMissingTemplate = errors.New("container template not set")
)

var hostname = regexp.MustCompile(`^[A-Za-z]([A-Za-z0-9\-]*[A-Za-z0-9])?$`)

// Definition describes the single container this tool provisions.
// All values come from the environment with defaults, see app/config.
type Definition struct {
	ID       int    `json:"id"`
	Hostname string `json:"hostname"`

	Cores  int `json:"cores"`
	Memory int `json:"memory"` // MiB
	Swap   int `json:"swap"`   // MiB
	Disk   int `json:"disk"`   // GiB

	Storage         string `json:"storage"`
	Template        string `json:"template"`
	TemplateStorage string `json:"templateStorage"`

	Bridge  string `json:"bridge"`
	IP      string `json:"ip"` // "dhcp" or CIDR
	Gateway string `json:"gateway,omitempty"`

	Unprivileged bool `json:"unprivileged"`
}

func FromConfig() Definition {
	return Definition{
		ID:              viper.GetInt("container.id"),
		Hostname:        viper.GetString("container.hostname"),
		Cores:           viper.GetInt("container.cores"),
		Memory:          viper.GetInt("container.memory"),
		Swap:            viper.GetInt("container.swap"),
		Disk:            viper.GetInt("container.disk"),
		Storage:         viper.GetString("container.storage"),
		Template:        viper.GetString("container.template"),
		TemplateStorage: viper.GetString("container.templatestorage"),
		Bridge:          viper.GetString("container.bridge"),
		IP:              viper.GetString("container.ip"),
		Gateway:         viper.GetString("container.gateway"),
		Unprivileged:    viper.GetBool("container.unprivileged"),
	}
}

func (d Definition) Validate() error {
	if d.ID <= 0 {
		return ErrInvalidID
	}

	if len(d.Hostname) > 63 || !hostname.MatchString(d.Hostname) {
		return ErrInvalidHostname
	}

	if d.Cores <= 0 || d.Memory <= 0 || d.Swap < 0 || d.Disk <= 0 {
		return ErrInvalidSizing
	}

	if d.IP != "dhcp" {
		if _, _, err := net.ParseCIDR(d.IP); err != nil {
			return ErrInvalidAddress
		}
	}

	if d.Template == "" {
		return ErrMissingTemplate
	}

	return nil
}
