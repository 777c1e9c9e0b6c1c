package registry

import (
	"context"
	"time"

	"github.com/spf13/viper"
)

// ProvisionMeta is what gets recorded about a completed provisioning
// run so other tooling can find the container later.
type ProvisionMeta struct {
	ContainerID   int       `json:"container_id"`
	Hostname      string    `json:"hostname"`
	DeployDir     string    `json:"deploy_dir"`
	Service       string    `json:"service"`
	ProvisionedAt time.Time `json:"provisioned_at"`
}

type RegistryRepo interface {
	SaveProvision(ctx context.Context, meta ProvisionMeta) error
}

func NewRegistryRepo() (RegistryRepo, error) {
	if viper.GetBool("consul.enabled") {
		return NewConsulRegistryRepo()
	}
	return noopRegistryRepo{}, nil
}

type noopRegistryRepo struct{}

func (noopRegistryRepo) SaveProvision(ctx context.Context, meta ProvisionMeta) error {
	return nil
}
