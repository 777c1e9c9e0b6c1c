package secrets

import (
	"context"

	"github.com/spf13/viper"
)

// SecretsRepo resolves the Proxmox API token that ends up in the
// generated MCP config.
type SecretsRepo interface {
	APIToken(ctx context.Context) (string, error)
}

// NewSecretsRepo returns the Vault-backed resolver when Vault is
// enabled, otherwise the token comes straight from the environment.
func NewSecretsRepo() (SecretsRepo, error) {
	if viper.GetBool("vault.enabled") {
		return NewVaultSecretsRepo()
	}
	return envSecretsRepo{}, nil
}

type envSecretsRepo struct{}

func (envSecretsRepo) APIToken(ctx context.Context) (string, error) {
	return viper.GetString("auth.tokenvalue"), nil
}
