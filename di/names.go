package di

// PkgNames defines the component keys registered by discoverykit.
type PkgNames struct {
	Config           string
	Logger           string
	DiscoveryClient  string
	DiscoveryOptions string
}

// Pkg contains the component keys registered by discoverykit.
var Pkg = PkgNames{
	Config:           "config",
	Logger:           "logger",
	DiscoveryClient:  "discovery_client",
	DiscoveryOptions: "discovery_options",
}
