package eureka

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Host lookups, replaceable in tests.
var (
	lookupHostName  = os.Hostname
	lookupIPAddress = firstNonLoopbackIPv4
)

func firstNonLoopbackIPv4() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("no non-loopback IPv4 address found")
}

// GetHostName returns the configured HostName when set. Otherwise it returns
// the cached local host name, resolving it first when refresh is true or
// nothing is cached yet. Resolution failures yield the empty string.
func (o *InstanceOptions) GetHostName(refresh bool) string {
	if o.HostName != "" {
		return o.HostName
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if refresh || o.cachedHostName == "" {
		if name, err := lookupHostName(); err == nil {
			o.cachedHostName = name
		}
	}
	return o.cachedHostName
}

// GetIPAddress returns the configured IPAddress when set, otherwise the
// cached first non-loopback IPv4 address of this machine.
func (o *InstanceOptions) GetIPAddress(refresh bool) string {
	if o.IPAddress != "" {
		return o.IPAddress
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if refresh || o.cachedIP == "" {
		if ip, err := lookupIPAddress(); err == nil {
			o.cachedIP = ip
		}
	}
	return o.cachedIP
}

// EffectiveHostName is the host other instances use to reach this one.
// PreferIPAddress or the "ip" and "direct" registration methods advertise
// the IP address; every other method advertises the host name.
func (o *InstanceOptions) EffectiveHostName() string {
	method := strings.ToLower(o.RegistrationMethod)
	if o.PreferIPAddress || method == RegistrationMethodIP || method == RegistrationMethodDirect {
		if ip := o.GetIPAddress(false); ip != "" {
			return ip
		}
	}
	return o.GetHostName(false)
}

// EffectiveInstanceID returns InstanceID when set, otherwise
// "<host>:<app>:<port>", or "<app>:<uuid>" when no host is known. The uuid
// is generated once per InstanceOptions.
func (o *InstanceOptions) EffectiveInstanceID() string {
	if o.InstanceID != "" {
		return o.InstanceID
	}
	host := o.EffectiveHostName()
	if host == "" {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.generatedID == "" {
			o.generatedID = uuid.NewString()
		}
		return o.AppName + ":" + o.generatedID
	}
	return host + ":" + o.AppName + ":" + strconv.Itoa(o.EffectiveNonSecurePort())
}

// EffectiveNonSecurePort resolves PortUnset to 80.
func (o *InstanceOptions) EffectiveNonSecurePort() int {
	if o.NonSecurePort == PortUnset || o.NonSecurePort == 0 {
		return 80
	}
	return o.NonSecurePort
}

// EffectiveSecurePort resolves PortUnset to 443.
func (o *InstanceOptions) EffectiveSecurePort() int {
	if o.SecurePort == PortUnset || o.SecurePort == 0 {
		return 443
	}
	return o.SecurePort
}
