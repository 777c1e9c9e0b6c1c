package host

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Strum355/log"
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"

	"github.com/pvetools/mcpdeploy/app/models/provision"
)

// pctHost provisions containers through the Proxmox VE host CLIs
// (pct and pveam). Every operation is a synchronous shell-out; a
// non-zero exit aborts with the tool's stderr attached.
type pctHost struct {
	run runnerFunc
}

type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// keep the ExitError in the chain so callers can propagate the exit code
			return nil, errors.Wrapf(err, "%s %s: %s", name, strings.Join(args, " "), bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, errors.Wrapf(err, "failed to run %s", name)
	}
	return out, nil
}

func NewPctRepository() ContainerHostRepository {
	return &pctHost{run: runCommand}
}

func (p *pctHost) Ping(ctx context.Context) error {
	for _, bin := range []string{"pct", "pveam"} {
		if _, err := exec.LookPath(bin); err != nil {
			return errors.Wrapf(err, "%s not found, not a Proxmox VE host?", bin)
		}
	}
	_, err := p.run(ctx, "pveversion")
	return err
}

func (p *pctHost) Exists(ctx context.Context, ref ContainerRef) (bool, error) {
	// pct status exits non-zero when the ID is unknown
	if _, err := p.run(ctx, "pct", "status", strconv.Itoa(ref.ID)); err != nil {
		return false, nil
	}
	return true, nil
}

func (p *pctHost) EnsureTemplate(ctx context.Context, def provision.Definition) error {
	out, err := p.run(ctx, "pveam", "list", def.TemplateStorage)
	if err != nil {
		return err
	}

	if strings.Contains(string(out), def.Template) {
		log.WithFields(log.Fields{
			"template": def.Template,
		}).Debug("template already downloaded")
		return nil
	}

	log.WithFields(log.Fields{
		"template": def.Template,
		"storage":  def.TemplateStorage,
	}).Info("downloading container template")

	if _, err := p.run(ctx, "pveam", "update"); err != nil {
		return err
	}
	if _, err := p.run(ctx, "pveam", "download", def.TemplateStorage, def.Template); err != nil {
		return errors.WithMessage(ErrTemplateUnavailable, err.Error())
	}
	return nil
}

func (p *pctHost) Create(ctx context.Context, def provision.Definition) error {
	log.WithFields(log.Fields{
		"containerID": def.ID,
		"hostname":    def.Hostname,
	}).Debug("create container request")

	args := []string{
		"create", strconv.Itoa(def.ID),
		fmt.Sprintf("%s:vztmpl/%s", def.TemplateStorage, def.Template),
		"--hostname", def.Hostname,
		"--cores", strconv.Itoa(def.Cores),
		"--memory", strconv.Itoa(def.Memory),
		"--swap", strconv.Itoa(def.Swap),
		"--rootfs", fmt.Sprintf("%s:%d", def.Storage, def.Disk),
		"--net0", netSpec(def),
		"--features", "nesting=1",
	}
	if def.Unprivileged {
		args = append(args, "--unprivileged", "1")
	}

	_, err := p.run(ctx, "pct", args...)
	return p.parseError(err)
}

func netSpec(def provision.Definition) string {
	spec := fmt.Sprintf("name=eth0,bridge=%s,ip=%s", def.Bridge, def.IP)
	if def.IP != "dhcp" && def.Gateway != "" {
		spec += ",gw=" + def.Gateway
	}
	return spec
}

func (p *pctHost) parseError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "already exists") {
		return ErrHostExists
	}
	return err
}

func (p *pctHost) Start(ctx context.Context, ref ContainerRef) error {
	_, err := p.run(ctx, "pct", "start", strconv.Itoa(ref.ID))
	return err
}

func (p *pctHost) WaitReady(ctx context.Context, ref ContainerRef) error {
	retry := backoff.WithContext(backoff.NewConstantBackOff(time.Second*2), ctx)
	f := func() error {
		out, err := p.run(ctx, "pct", "status", strconv.Itoa(ref.ID))
		if err != nil {
			return backoff.Permanent(err)
		}
		if !strings.Contains(string(out), "running") {
			return errors.New("container not yet running")
		}
		return nil
	}
	if err := backoff.Retry(f, retry); err != nil {
		return errors.WithMessage(ErrHostNotReady, err.Error())
	}

	// Wait for the guest's init to finish booting. A degraded boot
	// still accepts exec and package installs.
	if err := p.Exec(ctx, ref, "systemctl", "is-system-running", "--wait"); err != nil {
		if !strings.Contains(err.Error(), "degraded") {
			return errors.WithMessage(ErrHostNotReady, err.Error())
		}
	}
	return nil
}

func (p *pctHost) Exec(ctx context.Context, ref ContainerRef, cmd ...string) error {
	args := append([]string{"exec", strconv.Itoa(ref.ID), "--"}, cmd...)
	_, err := p.run(ctx, "pct", args...)
	return err
}

func (p *pctHost) PushFile(ctx context.Context, ref ContainerRef, opts PushFileOptions) error {
	// pct push wants a file on the host side
	tmp, err := os.CreateTemp("", "mcpdeploy-push-")
	if err != nil {
		return errors.Wrap(err, "failed to stage file for push")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(opts.Content); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to stage file for push")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to stage file for push")
	}

	args := []string{
		"push", strconv.Itoa(ref.ID), tmp.Name(), opts.Path,
		"--perms", fmt.Sprintf("%o", opts.Mode),
	}
	if opts.User != "" {
		args = append(args, "--user", opts.User)
	}
	if opts.Group != "" {
		args = append(args, "--group", opts.Group)
	}

	_, err = p.run(ctx, "pct", args...)
	return errors.WithMessage(err, fmt.Sprintf("failed to push %s", opts.Path))
}
