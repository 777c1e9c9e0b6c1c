package host

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pvetools/mcpdeploy/app/models/provision"
)

// ContainerRef identifies a container on the host. The pct backend
// addresses containers by numeric ID, the lxd backend by name.
type ContainerRef struct {
	ID   int
	Name string
}

type PushFileOptions struct {
	Path    string
	Content []byte
	Mode    int
	User    string
	Group   string
}

type ContainerHostRepository interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, ref ContainerRef) (bool, error)
	EnsureTemplate(ctx context.Context, def provision.Definition) error
	Create(ctx context.Context, def provision.Definition) error
	Start(ctx context.Context, ref ContainerRef) error
	WaitReady(ctx context.Context, ref ContainerRef) error
	Exec(ctx context.Context, ref ContainerRef, cmd ...string) error
	PushFile(ctx context.Context, ref ContainerRef, opts PushFileOptions) error
}

func NewContainerHostRepository() (ContainerHostRepository, error) {
	switch backend := viper.GetString("host.type"); backend {
	case "pct":
		return NewPctRepository(), nil
	case "lxd":
		return NewLXDRepository()
	default:
		return nil, fmt.Errorf("invalid container host type %q", backend)
	}
}
