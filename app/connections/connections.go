package connections

import (
	consul "github.com/hashicorp/consul/api"

	lxd "github.com/lxc/lxd/client"

	"github.com/Strum355/log"
	"github.com/spf13/viper"

	"github.com/pvetools/mcpdeploy/app/proxmox"
)

type Connections struct {
	lxd     lxd.ContainerServer
	consul  *consul.Client
	proxmox *proxmox.Client
}

var group Connections

// EstablishConnections dials only what the configuration enables. The
// pct backend needs no connection at all, it shells out to host CLIs.
func EstablishConnections() error {
	var err error

	if viper.GetBool("consul.enabled") {
		if _, err = GetConsul(); err != nil {
			return err
		}
	}

	if viper.GetString("host.type") == "lxd" {
		if _, err = GetLXD(); err != nil {
			return err
		}
	}

	if viper.GetString("proxmox.host") != "" {
		if _, err = GetProxmox(); err != nil {
			return err
		}
	}

	log.Info("connections established")
	return nil
}

func GetConsul() (*consul.Client, error) {
	if group.consul != nil {
		return group.consul, nil
	}

	config := consul.Config{
		Address: viper.GetString("consul.host"),
		Token:   viper.GetString("consul.token"),
	}

	client, err := consul.NewClient(&config)
	if err != nil {
		return nil, NewConnectionError(err, "Consul")
	}

	group.consul = client

	return client, nil
}

func GetLXD() (lxd.ContainerServer, error) {
	if group.lxd != nil {
		return group.lxd, nil
	}

	lxdConn, err := lxd.ConnectLXDUnix(viper.GetString("lxd.socket"), &lxd.ConnectionArgs{
		UserAgent: "mcpdeploy",
	})
	if err != nil {
		return nil, NewConnectionError(err, "LXD")
	}

	group.lxd = lxdConn

	return lxdConn, nil
}

func GetProxmox() (*proxmox.Client, error) {
	if group.proxmox != nil {
		return group.proxmox, nil
	}

	client, err := proxmox.NewClient(proxmox.ConfigFromViper())
	if err != nil {
		return nil, NewConnectionError(err, "Proxmox API")
	}

	group.proxmox = client

	return client, nil
}
