package discovery

import (
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/errors"
)

// Bind reads discovery options from a configuration tree. The first
// registered client type whose configuration branch is present wins; when no
// branch is present the result has ClientTypeUnknown and nil payloads.
func Bind(tree config.Tree) (*Options, error) {
	if tree == nil {
		return nil, errors.InvalidArgument("config")
	}

	for _, p := range registeredProviders() {
		if p.Detect == nil || !p.Detect(tree) {
			continue
		}
		return bindProvider(p, tree)
	}
	return NewOptions(), nil
}

func bindProvider(p Provider, tree config.Tree) (*Options, error) {
	client, reg, err := p.Bind(tree)
	if err != nil {
		return nil, err
	}
	return &Options{
		ClientType:          p.Type,
		ClientOptions:       client,
		RegistrationOptions: reg,
	}, nil
}
