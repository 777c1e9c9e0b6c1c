package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/Strum355/log"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/pvetools/mcpdeploy/app/models/mcpconfig"
	"github.com/pvetools/mcpdeploy/app/models/provision"
	"github.com/pvetools/mcpdeploy/app/proxmox"
	host "github.com/pvetools/mcpdeploy/app/repositories/containerHost"
	"github.com/pvetools/mcpdeploy/app/repositories/registry"
	"github.com/pvetools/mcpdeploy/app/repositories/secrets"
)

// ErrNotRoot is a precondition failure: host CLIs like pct refuse to
// run without root, so bail out before touching anything.
var ErrNotRoot = errors.New("must be run as root")

var basePackages = []string{"python3", "python3-venv", "python3-pip", "git", "curl"}

// ProvisionService runs the whole provisioning sequence: precondition
// checks, container creation, OS bootstrap, MCP server deployment and
// systemd service registration. Steps are strictly sequential and
// fail-fast; a failure aborts with no rollback of earlier steps.
type ProvisionService struct {
	repo      host.ContainerHostRepository
	secrets   secrets.SecretsRepo
	registry  registry.RegistryRepo
	geteuid   func() int
	verifyAPI func(ctx context.Context, token string) error
}

func NewProvisionService() (*ProvisionService, error) {
	repo, err := host.NewContainerHostRepository()
	if err != nil {
		return nil, err
	}

	secretsRepo, err := secrets.NewSecretsRepo()
	if err != nil {
		return nil, err
	}

	registryRepo, err := registry.NewRegistryRepo()
	if err != nil {
		return nil, err
	}

	return &ProvisionService{
		repo:      repo,
		secrets:   secretsRepo,
		registry:  registryRepo,
		geteuid:   os.Geteuid,
		verifyAPI: verifyProxmoxAPI,
	}, nil
}

func (s *ProvisionService) Provision(ctx context.Context, def provision.Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	if s.geteuid() != 0 {
		return ErrNotRoot
	}

	if err := s.repo.Ping(ctx); err != nil {
		return err
	}

	ref := host.ContainerRef{ID: def.ID, Name: def.Hostname}

	exists, err := s.repo.Exists(ctx, ref)
	if err != nil {
		return err
	}
	if exists {
		return host.ErrHostExists
	}

	if err := s.repo.EnsureTemplate(ctx, def); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"containerID": def.ID,
		"hostname":    def.Hostname,
	}).Info("creating container")

	if err := s.repo.Create(ctx, def); err != nil {
		return err
	}

	if err := s.repo.Start(ctx, ref); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, viper.GetDuration("host.startwait"))
	defer cancel()
	if err := s.repo.WaitReady(waitCtx, ref); err != nil {
		return err
	}

	if err := s.bootstrapOS(ctx, ref); err != nil {
		return err
	}

	if err := s.deployApplication(ctx, ref); err != nil {
		return err
	}

	token, err := s.secrets.APIToken(ctx)
	if err != nil {
		return err
	}

	if err := s.installService(ctx, ref, token); err != nil {
		return err
	}

	if err := s.verify(ctx, ref, token); err != nil {
		return err
	}

	return s.registry.SaveProvision(ctx, registry.ProvisionMeta{
		ContainerID:   def.ID,
		Hostname:      def.Hostname,
		DeployDir:     viper.GetString("deploy.dir"),
		Service:       viper.GetString("deploy.service"),
		ProvisionedAt: time.Now().UTC(),
	})
}

func (s *ProvisionService) bootstrapOS(ctx context.Context, ref host.ContainerRef) error {
	log.Info("installing base packages")

	if err := s.repo.Exec(ctx, ref, "apt-get", "update"); err != nil {
		return err
	}

	install := append([]string{"env", "DEBIAN_FRONTEND=noninteractive", "apt-get", "install", "-y"}, basePackages...)
	if err := s.repo.Exec(ctx, ref, install...); err != nil {
		return err
	}

	user := viper.GetString("deploy.user")
	return s.repo.Exec(ctx, ref, "useradd", "--system", "--create-home", "--shell", "/usr/sbin/nologin", user)
}

func (s *ProvisionService) deployApplication(ctx context.Context, ref host.ContainerRef) error {
	repoURL := viper.GetString("deploy.repo")
	dir := viper.GetString("deploy.dir")
	user := viper.GetString("deploy.user")

	log.WithFields(log.Fields{
		"repo": repoURL,
		"dir":  dir,
	}).Info("deploying MCP server")

	steps := [][]string{
		{"git", "clone", repoURL, dir},
		{"python3", "-m", "venv", path.Join(dir, ".venv")},
		{path.Join(dir, ".venv/bin/pip"), "install", "--upgrade", "pip"},
		{path.Join(dir, ".venv/bin/pip"), "install", "-e", dir},
		{"mkdir", "-p", path.Join(dir, "proxmox-config")},
	}
	for _, step := range steps {
		if err := s.repo.Exec(ctx, ref, step...); err != nil {
			return err
		}
	}

	return s.repo.Exec(ctx, ref, "chown", "-R", user+":"+user, dir)
}

func (s *ProvisionService) installService(ctx context.Context, ref host.ContainerRef, token string) error {
	dir := viper.GetString("deploy.dir")
	user := viper.GetString("deploy.user")
	service := viper.GetString("deploy.service")
	configPath := path.Join(dir, "proxmox-config", "config.json")

	configJSON, err := mcpconfig.FromConfig(token).Render()
	if err != nil {
		return err
	}

	unitFile, err := RenderUnit(UnitParams{
		Service:    service,
		User:       user,
		DeployDir:  dir,
		ConfigPath: configPath,
	})
	if err != nil {
		return err
	}

	err = multierr.Combine(
		s.repo.PushFile(ctx, ref, host.PushFileOptions{
			Path: configPath, Content: configJSON, Mode: 0640, User: user, Group: user,
		}),
		s.repo.PushFile(ctx, ref, host.PushFileOptions{
			Path: fmt.Sprintf("/etc/systemd/system/%s.service", service), Content: unitFile, Mode: 0644,
		}),
	)
	if err != nil {
		return err
	}

	if err := s.repo.Exec(ctx, ref, "systemctl", "daemon-reload"); err != nil {
		return err
	}

	return s.repo.Exec(ctx, ref, "systemctl", "enable", "--now", service+".service")
}

func (s *ProvisionService) verify(ctx context.Context, ref host.ContainerRef, token string) error {
	service := viper.GetString("deploy.service")
	if err := s.repo.Exec(ctx, ref, "systemctl", "is-active", "--quiet", service+".service"); err != nil {
		return errors.WithMessage(err, "MCP service is not active after install")
	}

	// One API round trip with the credentials baked into the generated
	// config, so a bad token surfaces here instead of in the guest logs.
	if viper.GetString("proxmox.host") != "" {
		return s.verifyAPI(ctx, token)
	}

	return nil
}

// verifyProxmoxAPI authenticates with the same token that was written
// into the pushed config, which is not necessarily the one in the
// environment when Vault is enabled.
func verifyProxmoxAPI(ctx context.Context, token string) error {
	cfg := proxmox.ConfigFromViper()
	cfg.TokenValue = token

	client, err := proxmox.NewClient(cfg)
	if err != nil {
		return err
	}

	version, err := client.Version(ctx)
	if err != nil {
		return errors.WithMessage(err, "provisioned, but Proxmox API verification failed")
	}

	log.WithFields(log.Fields{
		"version": version.Version,
	}).Info("Proxmox API reachable with configured credentials")
	return nil
}
