package registry

import (
	"context"
	"encoding/json"
	"fmt"

	consul "github.com/hashicorp/consul/api"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/pvetools/mcpdeploy/app/connections"
)

type consulRegistryRepo struct {
	client *consul.Client
}

func NewConsulRegistryRepo() (RegistryRepo, error) {
	client, err := connections.GetConsul()
	if err != nil {
		return nil, err
	}

	return &consulRegistryRepo{client: client}, nil
}

func (r *consulRegistryRepo) SaveProvision(ctx context.Context, meta ProvisionMeta) error {
	b, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%s", viper.GetString("consul.path"), meta.Hostname)
	_, err = r.client.KV().Put(&consul.KVPair{
		Key:   key,
		Value: b,
	}, (&consul.WriteOptions{}).WithContext(ctx))
	return errors.WithMessage(err, fmt.Sprintf("failed to save provision record at %s", key))
}
