package discovery

import (
	"sort"

	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/errors"
)

// Credential keys read from a registry service binding.
const (
	CredentialURI            = "uri"
	CredentialClientID       = "client_id"
	CredentialClientSecret   = "client_secret"
	CredentialAccessTokenURI = "access_token_uri"
)

// ConnectionOverride is the connection data taken from the one service
// binding that identifies a discovery registry.
type ConnectionOverride struct {
	ClientType     ClientType
	BindingName    string
	ServiceURL     string
	ClientID       string
	ClientSecret   string
	AccessTokenURI string
}

// ResolveServiceBinding scans services for registry bindings. A non-empty
// serviceName restricts the scan to bindings with that name.
//
// It returns nil without error when nothing matches and no name was
// requested, ServiceNotFound when a requested name matches nothing and
// AmbiguousServiceBinding when more than one binding matches.
func ResolveServiceBinding(services cloudfoundry.Services, serviceName string) (*ConnectionOverride, error) {
	type match struct {
		binding cloudfoundry.ServiceBinding
		kind    ClientType
	}

	provs := registeredProviders()
	var matches []match
	for _, b := range services.All() {
		if serviceName != "" && b.Name != serviceName {
			continue
		}
		for _, p := range provs {
			if p.MatchesBinding != nil && p.MatchesBinding(b) {
				matches = append(matches, match{binding: b, kind: p.Type})
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		if serviceName != "" {
			return nil, errors.ServiceNotFound(serviceName)
		}
		return nil, nil
	case 1:
		b := matches[0].binding
		return &ConnectionOverride{
			ClientType:     matches[0].kind,
			BindingName:    b.Name,
			ServiceURL:     b.Credentials[CredentialURI],
			ClientID:       b.Credentials[CredentialClientID],
			ClientSecret:   b.Credentials[CredentialClientSecret],
			AccessTokenURI: b.Credentials[CredentialAccessTokenURI],
		}, nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.binding.Name)
		}
		sort.Strings(names)
		return nil, errors.AmbiguousServiceBinding(names)
	}
}
