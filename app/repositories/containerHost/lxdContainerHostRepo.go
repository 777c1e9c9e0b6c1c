package host

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Strum355/log"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	lxdclient "github.com/lxc/lxd/client"
	"github.com/lxc/lxd/shared/api"

	"github.com/pvetools/mcpdeploy/app/connections"
	"github.com/pvetools/mcpdeploy/app/models/provision"
	"github.com/pvetools/mcpdeploy/utils/lxdops"
	"github.com/pvetools/mcpdeploy/utils/writecloser"
)

// lxdHost is the alternative backend for hosts running LXD instead of
// the Proxmox VE tooling. Containers are addressed by name.
type lxdHost struct {
	conn lxdclient.ContainerServer
}

func NewLXDRepository() (ContainerHostRepository, error) {
	conn, err := connections.GetLXD()
	if err != nil {
		return nil, errors.Wrap(err, "error getting LXD host")
	}

	return &lxdHost{conn: conn}, nil
}

func (l *lxdHost) Ping(ctx context.Context) error {
	_, _, err := l.conn.GetServer()
	return err
}

func (l *lxdHost) Exists(ctx context.Context, ref ContainerRef) (bool, error) {
	names, err := l.conn.GetContainerNames()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == ref.Name {
			return true, nil
		}
	}
	return false, nil
}

func (l *lxdHost) EnsureTemplate(ctx context.Context, def provision.Definition) error {
	alias := viper.GetString("lxd.baseimage")
	if _, _, err := l.conn.GetImageAlias(alias); err != nil {
		return errors.WithMessage(ErrTemplateUnavailable, fmt.Sprintf("image alias %s: %v", alias, err))
	}
	return nil
}

func (l *lxdHost) Create(ctx context.Context, def provision.Definition) error {
	log.WithFields(log.Fields{
		"containerName": def.Hostname,
	}).Debug("create container request")

	config, devices := lxdInstanceConfig(def)

	op, err := l.conn.CreateContainer(api.ContainersPost{
		ContainerPut: api.ContainerPut{
			Devices: devices,
			Config:  config,
		},
		Name: def.Hostname,
		Source: api.ContainerSource{
			Type:  "image",
			Alias: viper.GetString("lxd.baseimage"),
		},
	})
	if err != nil {
		return l.parseError(err)
	}

	return l.parseError(lxdops.OperationTimeout(ctx, op))
}

// lxdInstanceConfig maps the definition onto LXD config and devices.
// Swap in MiB has no direct LXD equivalent, it only toggles
// limits.memory.swap; Storage is interpreted as the LXD pool name.
func lxdInstanceConfig(def provision.Definition) (map[string]string, map[string]map[string]string) {
	config := map[string]string{
		"limits.cpu":         fmt.Sprintf("%d", def.Cores),
		"limits.memory":      fmt.Sprintf("%dMB", def.Memory),
		"limits.memory.swap": fmt.Sprintf("%t", def.Swap > 0),
		"security.nesting":   "true",
	}

	devices := map[string]map[string]string{
		"eth0": {
			"type":    "nic",
			"nictype": "bridged",
			"name":    "eth0",
			"parent":  def.Bridge,
		},
		"root": {
			"type": "disk",
			"path": "/",
			"pool": def.Storage,
			"size": fmt.Sprintf("%dGB", def.Disk),
		},
	}
	if def.IP != "dhcp" {
		devices["eth0"]["ipv4.address"] = strings.SplitN(def.IP, "/", 2)[0]
	}

	return config, devices
}

func (l *lxdHost) parseError(err error) error {
	if err == nil {
		return nil
	}
	if strings.HasSuffix(err.Error(), "already exists") {
		return ErrHostExists
	}
	return err
}

func (l *lxdHost) Start(ctx context.Context, ref ContainerRef) error {
	op, err := l.conn.UpdateContainerState(ref.Name, api.ContainerStatePut{
		Action:  "start",
		Timeout: -1,
	}, "")
	if err != nil {
		return err
	}

	return lxdops.OperationTimeout(ctx, op)
}

// WaitReady polls until the container is running and eth0 has an IPv4
// address, which is when the guest is far enough along to exec into.
func (l *lxdHost) WaitReady(ctx context.Context, ref ContainerRef) error {
	retry := backoff.WithContext(backoff.NewConstantBackOff(time.Second), ctx)
	f := func() error {
		state, _, err := l.conn.GetContainerState(ref.Name)
		if err != nil {
			return backoff.Permanent(err)
		}

		if state.Status != "Running" {
			return errors.New("container not yet running")
		}

		for _, addr := range state.Network["eth0"].Addresses {
			if addr.Family == "inet" {
				return nil
			}
		}
		return errors.New("no ipv4 address on eth0 yet")
	}

	if err := backoff.Retry(f, retry); err != nil {
		return errors.WithMessage(ErrHostNotReady, err.Error())
	}
	return nil
}

func (l *lxdHost) Exec(ctx context.Context, ref ContainerRef, cmd ...string) error {
	exec := api.ContainerExecPost{
		Command:   cmd,
		WaitForWS: true,
	}

	buf := &writecloser.BytesBuffer{Buffer: bytes.NewBuffer(nil)}
	op, err := l.conn.ExecContainer(ref.Name, exec, &lxdclient.ContainerExecArgs{
		Stderr: buf,
	})
	if err != nil {
		return err
	}

	err = lxdops.OperationTimeout(ctx, op)
	if err == context.DeadlineExceeded {
		return err
	}
	if err != nil {
		return errors.WithMessage(err, fmt.Sprintf("exec %s: %s", strings.Join(cmd, " "), buf.String()))
	}

	// The operation completes even when the command exits non-zero;
	// the exit status only shows up in the operation metadata.
	return execExitError(op.Get().Metadata, cmd, buf.String())
}

func execExitError(metadata map[string]interface{}, cmd []string, stderr string) error {
	ret, ok := metadata["return"].(float64)
	if !ok || ret == 0 {
		return nil
	}
	return errors.Errorf("exec %s: exit status %d: %s", strings.Join(cmd, " "), int(ret), stderr)
}

func (l *lxdHost) PushFile(ctx context.Context, ref ContainerRef, opts PushFileOptions) error {
	err := l.conn.CreateContainerFile(ref.Name, opts.Path, lxdclient.ContainerFileArgs{
		UID: 0, GID: 0, Content: bytes.NewReader(opts.Content), Mode: opts.Mode, Type: "file", WriteMode: "overwrite",
	})
	return errors.WithMessage(err, fmt.Sprintf("failed to push %s", opts.Path))
}
