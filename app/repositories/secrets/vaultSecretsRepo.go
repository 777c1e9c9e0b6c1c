package secrets

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/pvetools/mcpdeploy/app/repositories/providers"
)

type vaultSecretsRepo struct {
	vault providers.KVProvider
}

func NewVaultSecretsRepo() (SecretsRepo, error) {
	vault, err := providers.NewVaultProvider()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Vault client")
	}

	return &vaultSecretsRepo{vault: vault}, nil
}

func (v *vaultSecretsRepo) APIToken(ctx context.Context) (string, error) {
	data, err := v.vault.Get(viper.GetString("vault.path") + "token")
	if err != nil {
		return "", errors.WithMessage(err, "failed to read API token from Vault")
	}

	token, ok := data["token_value"].(string)
	if !ok || token == "" {
		return "", errors.New("token_value missing from Vault secret")
	}

	return token, nil
}
