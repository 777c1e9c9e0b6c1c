package config

import (
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func InitDefaults() {
	// Target container
	viper.SetDefault("container.id", 200)
	viper.SetDefault("container.hostname", "proxmox-mcp")
	viper.SetDefault("container.cores", 2)
	viper.SetDefault("container.memory", 2048) // MiB
	viper.SetDefault("container.swap", 512)    // MiB
	viper.SetDefault("container.disk", 8)      // GiB
	viper.SetDefault("container.storage", "local-lvm")
	viper.SetDefault("container.bridge", "vmbr0")
	viper.SetDefault("container.ip", "dhcp") // or CIDR, e.g. 10.0.0.50/24
	viper.SetDefault("container.gateway", "")
	viper.SetDefault("container.template", "debian-12-standard_12.7-1_amd64.tar.zst")
	viper.SetDefault("container.templatestorage", "local")
	viper.SetDefault("container.unprivileged", true)

	// Container host backend
	viper.SetDefault("host.type", "pct")
	viper.SetDefault("host.startwait", time.Second*90)

	// Proxmox API connection, written into the generated MCP config
	viper.SetDefault("proxmox.host", "")
	viper.SetDefault("proxmox.port", 8006)
	viper.SetDefault("proxmox.verifyssl", true)
	viper.SetDefault("proxmox.service", "PVE")

	// API token auth
	viper.SetDefault("auth.user", "root@pam")
	viper.SetDefault("auth.tokenname", "mcp")
	viper.SetDefault("auth.tokenvalue", "")

	// Logging section of the generated MCP config
	viper.SetDefault("logging.level", "INFO")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.file", "/opt/proxmox-mcp/proxmox_mcp.log")

	// MCP server deployment inside the container
	viper.SetDefault("deploy.repo", "https://github.com/canvrno/ProxmoxMCP.git")
	viper.SetDefault("deploy.dir", "/opt/proxmox-mcp")
	viper.SetDefault("deploy.user", "mcp")
	viper.SetDefault("deploy.service", "proxmox-mcp")

	// HTTP API (serve mode)
	viper.SetDefault("http.port", "9786")
	viper.SetDefault("http.address", getFQDN())
	viper.SetDefault("mcpdeploy.secret", "")

	// Vault settings
	viper.SetDefault("vault.enabled", false) // If enabled, gets the Proxmox API token from Vault
	viper.SetDefault("vault.url", "")
	viper.SetDefault("vault.token", "")
	viper.SetDefault("vault.path", "secret/mcpdeploy/")

	// Consul settings
	viper.SetDefault("consul.enabled", false)
	viper.SetDefault("consul.host", "127.0.0.1:8500")
	viper.SetDefault("consul.token", "") // ACL token
	viper.SetDefault("consul.path", "mcpdeploy")

	// LXD backend settings
	viper.SetDefault("lxd.socket", "/var/lib/lxd/unix.socket")
	viper.SetDefault("lxd.baseimage", "debian/12")
}

func getFQDN() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	addrs, err := net.LookupIP(hostname)
	if err != nil {
		return hostname
	}

	for _, addr := range addrs {
		if ipv4 := addr.To4(); ipv4 != nil {
			ip, err := ipv4.MarshalText()
			if err != nil {
				return hostname
			}
			hosts, err := net.LookupAddr(string(ip))
			if err != nil || len(hosts) == 0 {
				return hostname
			}
			fqdn := hosts[0]
			return strings.TrimSuffix(fqdn, ".") // return fqdn without trailing dot
		}
	}
	return hostname
}
