package eureka

import (
	"strings"
	"sync"

	"github.com/kbukum/discoverykit/discovery"
)

// Defaults applied to absent configuration keys.
const (
	DefaultServiceURL                             = "http://localhost:8761/eureka/"
	DefaultRegistryFetchIntervalSeconds           = 30
	DefaultInstanceInfoReplicationIntervalSeconds = 40
	DefaultConnectTimeoutSeconds                  = 5

	DefaultLeaseRenewalIntervalInSeconds    = 30
	DefaultLeaseExpirationDurationInSeconds = 90
	DefaultStatusPageURLPath                = "/Status"
	DefaultHomePageURLPath                  = "/"
	DefaultHealthCheckURLPath               = "/healthcheck"

	// PortUnset marks a port that was not configured.
	PortUnset = -1
)

// Registration methods selecting how the advertised host is computed.
const (
	RegistrationMethodRoute    = "route"
	RegistrationMethodDirect   = "direct"
	RegistrationMethodHostName = "hostname"
	RegistrationMethodIP       = "ip"
)

// Data center names.
const (
	DataCenterMyOwn  = "MyOwn"
	DataCenterAmazon = "Amazon"

	defaultDataCenterClass = "com.netflix.appinfo.InstanceInfo$DefaultDataCenterInfo"
)

// ServerOptions configures the connection to the Eureka server.
type ServerOptions struct {
	ProxyHost             string `mapstructure:"proxyHost"`
	ProxyPort             int    `mapstructure:"proxyPort" validate:"gte=0,lte=65535"`
	ProxyUserName         string `mapstructure:"proxyUserName"`
	ProxyPassword         string `mapstructure:"proxyPassword"`
	ShouldGZipContent     bool   `mapstructure:"shouldGZipContent"`
	ConnectTimeoutSeconds int    `mapstructure:"connectTimeoutSeconds" validate:"gt=0"`
}

// ClientOptions configures registry fetch and registration behavior.
type ClientOptions struct {
	// ServiceURL holds one or more comma-separated server URLs.
	ServiceURL                             string        `mapstructure:"serviceUrl"`
	AllowRedirects                         bool          `mapstructure:"allowRedirects"`
	ShouldDisableDelta                     bool          `mapstructure:"shouldDisableDelta"`
	ShouldFilterOnlyUpInstances            bool          `mapstructure:"shouldFilterOnlyUpInstances"`
	ShouldFetchRegistry                    bool          `mapstructure:"shouldFetchRegistry"`
	RegistryRefreshSingleVipAddress        string        `mapstructure:"registryRefreshSingleVipAddress"`
	ShouldOnDemandUpdateStatusChange       bool          `mapstructure:"shouldOnDemandUpdateStatusChange"`
	ShouldRegisterWithEureka               bool          `mapstructure:"shouldRegisterWithEureka"`
	RegistryFetchIntervalSeconds           int           `mapstructure:"registryFetchIntervalSeconds" validate:"gt=0"`
	InstanceInfoReplicationIntervalSeconds int           `mapstructure:"instanceInfoReplicationIntervalSeconds" validate:"gt=0"`
	EurekaServer                           ServerOptions `mapstructure:"eurekaServer"`

	// OAuth client credentials, normally supplied by a service binding.
	ClientID       string `mapstructure:"clientId"`
	ClientSecret   string `mapstructure:"clientSecret"`
	AccessTokenURI string `mapstructure:"accessTokenUri"`
}

// DefaultClientOptions returns client options with every default applied.
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		ServiceURL:                             DefaultServiceURL,
		ShouldFilterOnlyUpInstances:            true,
		ShouldFetchRegistry:                    true,
		ShouldOnDemandUpdateStatusChange:       true,
		ShouldRegisterWithEureka:               true,
		RegistryFetchIntervalSeconds:           DefaultRegistryFetchIntervalSeconds,
		InstanceInfoReplicationIntervalSeconds: DefaultInstanceInfoReplicationIntervalSeconds,
		EurekaServer: ServerOptions{
			ShouldGZipContent:     true,
			ConnectTimeoutSeconds: DefaultConnectTimeoutSeconds,
		},
	}
}

// ClientType implements discovery.ClientOptions.
func (o *ClientOptions) ClientType() discovery.ClientType { return discovery.ClientTypeEureka }

// ServiceURLs splits ServiceURL into its trimmed, non-empty entries.
func (o *ClientOptions) ServiceURLs() []string {
	var urls []string
	for _, u := range strings.Split(o.ServiceURL, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// DataCenterInfo identifies where the instance runs.
type DataCenterInfo struct {
	Name  string `mapstructure:"name"`
	Class string `mapstructure:"class"`
}

// InstanceOptions describes how this instance registers itself. Use it
// through a pointer: it caches resolved host data.
type InstanceOptions struct {
	InstanceID                       string            `mapstructure:"instanceId"`
	AppName                          string            `mapstructure:"appName"`
	AppGroupName                     string            `mapstructure:"appGroup"`
	InstanceEnabledOnInit            bool              `mapstructure:"instanceEnabledOnInit"`
	NonSecurePort                    int               `mapstructure:"port" validate:"eq=-1|gte=1,lte=65535"`
	SecurePort                       int               `mapstructure:"securePort" validate:"eq=-1|gte=1,lte=65535"`
	NonSecurePortEnabled             bool              `mapstructure:"nonSecurePortEnabled"`
	SecurePortEnabled                bool              `mapstructure:"securePortEnabled"`
	LeaseRenewalIntervalInSeconds    int               `mapstructure:"leaseRenewalIntervalInSeconds" validate:"gt=0"`
	LeaseExpirationDurationInSeconds int               `mapstructure:"leaseExpirationDurationInSeconds" validate:"gt=0"`
	VirtualHostName                  string            `mapstructure:"vipAddress"`
	SecureVirtualHostName            string            `mapstructure:"secureVipAddress"`
	ASGName                          string            `mapstructure:"asgName"`
	MetadataMap                      map[string]string `mapstructure:"metadataMap"`
	StatusPageURLPath                string            `mapstructure:"statusPageUrlPath"`
	StatusPageURL                    string            `mapstructure:"statusPageUrl"`
	HomePageURLPath                  string            `mapstructure:"homePageUrlPath"`
	HomePageURL                      string            `mapstructure:"homePageUrl"`
	HealthCheckURLPath               string            `mapstructure:"healthCheckUrlPath"`
	HealthCheckURL                   string            `mapstructure:"healthCheckUrl"`
	SecureHealthCheckURL             string            `mapstructure:"secureHealthCheckUrl"`
	DataCenterInfo                   DataCenterInfo    `mapstructure:"dataCenterInfo"`

	// HostName and IPAddress override host resolution when set.
	HostName        string `mapstructure:"hostName"`
	IPAddress       string `mapstructure:"ipAddress"`
	PreferIPAddress bool   `mapstructure:"preferIpAddress"`

	// RegistrationMethod is bound from spring.cloud.discovery.registrationMethod.
	RegistrationMethod string `mapstructure:"-"`

	mu             sync.Mutex
	cachedHostName string
	cachedIP       string
	generatedID    string
}

// DefaultInstanceOptions returns instance options with every default applied.
func DefaultInstanceOptions() *InstanceOptions {
	return &InstanceOptions{
		InstanceEnabledOnInit:            true,
		NonSecurePort:                    PortUnset,
		SecurePort:                       PortUnset,
		NonSecurePortEnabled:             true,
		LeaseRenewalIntervalInSeconds:    DefaultLeaseRenewalIntervalInSeconds,
		LeaseExpirationDurationInSeconds: DefaultLeaseExpirationDurationInSeconds,
		MetadataMap:                      map[string]string{},
		StatusPageURLPath:                DefaultStatusPageURLPath,
		HomePageURLPath:                  DefaultHomePageURLPath,
		HealthCheckURLPath:               DefaultHealthCheckURLPath,
		DataCenterInfo: DataCenterInfo{
			Name:  DataCenterMyOwn,
			Class: defaultDataCenterClass,
		},
	}
}

// ClientType implements discovery.RegistrationOptions.
func (o *InstanceOptions) ClientType() discovery.ClientType { return discovery.ClientTypeEureka }
