package provision

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validDefinition() Definition {
	return Definition{
		ID:              200,
		Hostname:        "proxmox-mcp",
		Cores:           2,
		Memory:          2048,
		Swap:            512,
		Disk:            8,
		Storage:         "local-lvm",
		Template:        "debian-12-standard_12.7-1_amd64.tar.zst",
		TemplateStorage: "local",
		Bridge:          "vmbr0",
		IP:              "dhcp",
		Unprivileged:    true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
		want   error
	}{
		{"valid dhcp", func(d *Definition) {}, nil},
		{"valid static", func(d *Definition) { d.IP = "10.0.0.50/24"; d.Gateway = "10.0.0.1" }, nil},
		{"zero id", func(d *Definition) { d.ID = 0 }, ErrInvalidID},
		{"negative id", func(d *Definition) { d.ID = -5 }, ErrInvalidID},
		{"single letter hostname", func(d *Definition) { d.Hostname = "a" }, nil},
		{"bad hostname", func(d *Definition) { d.Hostname = "-bad-" }, ErrInvalidHostname},
		{"trailing hyphen", func(d *Definition) { d.Hostname = "mcp-" }, ErrInvalidHostname},
		{"empty hostname", func(d *Definition) { d.Hostname = "" }, ErrInvalidHostname},
		{"zero cores", func(d *Definition) { d.Cores = 0 }, ErrInvalidSizing},
		{"negative swap", func(d *Definition) { d.Swap = -1 }, ErrInvalidSizing},
		{"bare ip without cidr", func(d *Definition) { d.IP = "10.0.0.50" }, ErrInvalidAddress},
		{"garbage ip", func(d *Definition) { d.IP = "not-an-ip" }, ErrInvalidAddress},
		{"missing template", func(d *Definition) { d.Template = "" }, ErrMissingTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(&def)
			assert.Equal(t, tt.want, def.Validate())
		})
	}
}

func TestFromConfig(t *testing.T) {
	viper.Reset()
	viper.Set("container.id", 412)
	viper.Set("container.hostname", "mcp-staging")
	viper.Set("container.cores", 4)
	viper.Set("container.memory", 4096)
	viper.Set("container.swap", 1024)
	viper.Set("container.disk", 16)
	viper.Set("container.storage", "zfs-pool")
	viper.Set("container.template", "debian-12-standard_12.7-1_amd64.tar.zst")
	viper.Set("container.templatestorage", "local")
	viper.Set("container.bridge", "vmbr1")
	viper.Set("container.ip", "192.168.4.10/24")
	viper.Set("container.gateway", "192.168.4.1")
	viper.Set("container.unprivileged", true)

	def := FromConfig()

	assert.Equal(t, 412, def.ID)
	assert.Equal(t, "mcp-staging", def.Hostname)
	assert.Equal(t, 4, def.Cores)
	assert.Equal(t, 4096, def.Memory)
	assert.Equal(t, "zfs-pool", def.Storage)
	assert.Equal(t, "192.168.4.10/24", def.IP)
	assert.Equal(t, "192.168.4.1", def.Gateway)
	assert.NoError(t, def.Validate())
}
