package eureka

import (
	"strconv"
	"strings"
	"time"
)

// Instance statuses understood by the Eureka server.
const (
	StatusUp           = "UP"
	StatusDown         = "DOWN"
	StatusStarting     = "STARTING"
	StatusOutOfService = "OUT_OF_SERVICE"
	StatusUnknown      = "UNKNOWN"
)

// Registration is the body of a Eureka register request.
type Registration struct {
	Instance InstanceInfo `json:"instance"`
}

// InstanceInfo is the instance document sent to the Eureka server.
type InstanceInfo struct {
	InstanceID       string            `json:"instanceId"`
	HostName         string            `json:"hostName"`
	App              string            `json:"app"`
	AppGroupName     string            `json:"appGroupName,omitempty"`
	IPAddr           string            `json:"ipAddr"`
	Status           string            `json:"status"`
	OverriddenStatus string            `json:"overriddenstatus"`
	Port             Port              `json:"port"`
	SecurePort       Port              `json:"securePort"`
	CountryID        int               `json:"countryId"`
	DataCenterInfo   DataCenterPayload `json:"dataCenterInfo"`
	LeaseInfo        LeaseInfo         `json:"leaseInfo"`
	Metadata         map[string]string `json:"metadata"`
	HomePageURL      string            `json:"homePageUrl"`
	StatusPageURL    string            `json:"statusPageUrl"`
	HealthCheckURL   string            `json:"healthCheckUrl,omitempty"`
	SecureHealthURL  string            `json:"secureHealthCheckUrl,omitempty"`
	VipAddress       string            `json:"vipAddress"`
	SecureVipAddress string            `json:"secureVipAddress"`
	ASGName          string            `json:"asgName,omitempty"`
	LastUpdated      string            `json:"lastUpdatedTimestamp"`
	LastDirty        string            `json:"lastDirtyTimestamp"`
}

// Port is a port number with its enabled flag.
type Port struct {
	Port    int    `json:"$"`
	Enabled string `json:"@enabled"`
}

// DataCenterPayload is the data center descriptor of InstanceInfo.
type DataCenterPayload struct {
	Class string `json:"@class"`
	Name  string `json:"name"`
}

// LeaseInfo carries the lease timings of the instance.
type LeaseInfo struct {
	RenewalIntervalInSecs int `json:"renewalIntervalInSecs"`
	DurationInSecs        int `json:"durationInSecs"`
}

// NewInstanceInfo builds the instance document for opts with the given status.
func NewInstanceInfo(opts *InstanceOptions, status string, now time.Time) InstanceInfo {
	host := opts.EffectiveHostName()
	ts := strconv.FormatInt(now.UnixMilli(), 10)

	dc := opts.DataCenterInfo
	if dc.Name == "" {
		dc.Name = DataCenterMyOwn
	}
	if dc.Class == "" {
		dc.Class = defaultDataCenterClass
	}

	metadata := make(map[string]string, len(opts.MetadataMap))
	for k, v := range opts.MetadataMap {
		metadata[k] = v
	}

	info := InstanceInfo{
		InstanceID:       opts.EffectiveInstanceID(),
		HostName:         host,
		App:              strings.ToUpper(opts.AppName),
		AppGroupName:     strings.ToUpper(opts.AppGroupName),
		IPAddr:           opts.GetIPAddress(false),
		Status:           status,
		OverriddenStatus: StatusUnknown,
		Port:             Port{Port: opts.EffectiveNonSecurePort(), Enabled: strconv.FormatBool(opts.NonSecurePortEnabled)},
		SecurePort:       Port{Port: opts.EffectiveSecurePort(), Enabled: strconv.FormatBool(opts.SecurePortEnabled)},
		CountryID:        1,
		DataCenterInfo:   DataCenterPayload{Class: dc.Class, Name: dc.Name},
		LeaseInfo: LeaseInfo{
			RenewalIntervalInSecs: opts.LeaseRenewalIntervalInSeconds,
			DurationInSecs:        opts.LeaseExpirationDurationInSeconds,
		},
		Metadata:         metadata,
		VipAddress:       opts.VirtualHostName,
		SecureVipAddress: opts.SecureVirtualHostName,
		ASGName:          opts.ASGName,
		LastUpdated:      ts,
		LastDirty:        ts,
	}
	if info.VipAddress == "" {
		info.VipAddress = opts.AppName
	}
	if info.SecureVipAddress == "" {
		info.SecureVipAddress = opts.AppName
	}

	info.HomePageURL = pageURL(opts.HomePageURL, opts.HomePageURLPath, opts, host, false)
	info.StatusPageURL = pageURL(opts.StatusPageURL, opts.StatusPageURLPath, opts, host, false)
	info.HealthCheckURL = pageURL(opts.HealthCheckURL, opts.HealthCheckURLPath, opts, host, false)
	if opts.SecurePortEnabled {
		info.SecureHealthURL = pageURL(opts.SecureHealthCheckURL, opts.HealthCheckURLPath, opts, host, true)
	}
	return info
}

// pageURL prefers an explicit absolute URL, otherwise joins path onto the
// instance's base URL.
func pageURL(explicit, path string, opts *InstanceOptions, host string, secure bool) string {
	if explicit != "" {
		return explicit
	}
	if path == "" || host == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	scheme, port, defaultPort := "http", opts.EffectiveNonSecurePort(), 80
	if secure || (!opts.NonSecurePortEnabled && opts.SecurePortEnabled) {
		scheme, port, defaultPort = "https", opts.EffectiveSecurePort(), 443
	}
	if port == defaultPort {
		return scheme + "://" + host + path
	}
	return scheme + "://" + host + ":" + strconv.Itoa(port) + path
}
