package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	require.NoError(t, Load())

	assert.Equal(t, 200, viper.GetInt("container.id"))
	assert.Equal(t, "proxmox-mcp", viper.GetString("container.hostname"))
	assert.Equal(t, 2, viper.GetInt("container.cores"))
	assert.Equal(t, 2048, viper.GetInt("container.memory"))
	assert.Equal(t, "local-lvm", viper.GetString("container.storage"))
	assert.Equal(t, "vmbr0", viper.GetString("container.bridge"))
	assert.Equal(t, "dhcp", viper.GetString("container.ip"))
	assert.Equal(t, "pct", viper.GetString("host.type"))
	assert.Equal(t, 8006, viper.GetInt("proxmox.port"))
	assert.True(t, viper.GetBool("proxmox.verifyssl"))
	assert.Equal(t, "PVE", viper.GetString("proxmox.service"))
	assert.Equal(t, "root@pam", viper.GetString("auth.user"))
	assert.Equal(t, "INFO", viper.GetString("logging.level"))
	assert.Equal(t, "/opt/proxmox-mcp", viper.GetString("deploy.dir"))
	assert.Equal(t, "proxmox-mcp", viper.GetString("deploy.service"))
	assert.False(t, viper.GetBool("vault.enabled"))
	assert.False(t, viper.GetBool("consul.enabled"))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("CONTAINER_ID", "333")
	t.Setenv("CONTAINER_HOSTNAME", "mcp-test")
	t.Setenv("PROXMOX_HOST", "pve.example.com")
	t.Setenv("PROXMOX_VERIFYSSL", "false")
	t.Setenv("AUTH_TOKENVALUE", "s3cret")

	require.NoError(t, Load())

	assert.Equal(t, 333, viper.GetInt("container.id"))
	assert.Equal(t, "mcp-test", viper.GetString("container.hostname"))
	assert.Equal(t, "pve.example.com", viper.GetString("proxmox.host"))
	assert.False(t, viper.GetBool("proxmox.verifyssl"))
	assert.Equal(t, "s3cret", viper.GetString("auth.tokenvalue"))
}
