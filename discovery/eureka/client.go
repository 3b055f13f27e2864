package eureka

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/http/httpproxy"

	"github.com/kbukum/discoverykit/component"
	"github.com/kbukum/discoverykit/discovery"
	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

// Description is reported by Client.Description.
const Description = "Eureka Discovery Client"

// Client holds the resolved Eureka options and the HTTP client prepared for
// talking to the server. Construction performs no network I/O.
type Client struct {
	clientOpts   *ClientOptions
	instanceOpts *InstanceOptions
	httpClient   *http.Client
	log          *logger.Logger

	mu     sync.RWMutex
	status string
	closed bool
}

// NewClient builds a Client from options. Nil options are replaced by their
// defaults.
func NewClient(clientOpts *ClientOptions, instanceOpts *InstanceOptions, log *logger.Logger) (*Client, error) {
	if clientOpts == nil {
		clientOpts = DefaultClientOptions()
	}
	if instanceOpts == nil {
		instanceOpts = DefaultInstanceOptions()
	}
	if log == nil {
		log = logger.Get("eureka")
	}

	if len(clientOpts.ServiceURLs()) == 0 && (clientOpts.ShouldRegisterWithEureka || clientOpts.ShouldFetchRegistry) {
		return nil, errors.Validation("serviceUrl: is required when registering or fetching")
	}

	httpClient := newHTTPClient(clientOpts)

	status := StatusStarting
	if instanceOpts.InstanceEnabledOnInit {
		status = StatusUp
	}

	c := &Client{
		clientOpts:   clientOpts,
		instanceOpts: instanceOpts,
		httpClient:   httpClient,
		log:          log.WithComponent("eureka"),
		status:       status,
	}
	c.log.Debug("eureka client created", logger.Fields(
		"service_url", clientOpts.ServiceURL,
		"app", instanceOpts.AppName,
		"register", clientOpts.ShouldRegisterWithEureka,
		"fetch", clientOpts.ShouldFetchRegistry,
	))
	return c, nil
}

func newHTTPClient(opts *ClientOptions) *http.Client {
	timeout := time.Duration(opts.EurekaServer.ConnectTimeoutSeconds) * time.Second
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout: timeout,
		DisableCompression:  !opts.EurekaServer.ShouldGZipContent,
	}

	if proxy := proxyURL(opts.EurekaServer); proxy != "" {
		proxyFunc := (&httpproxy.Config{HTTPProxy: proxy, HTTPSProxy: proxy}).ProxyFunc()
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
	}

	client := &http.Client{Transport: transport}
	if !opts.AllowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}

// proxyURL renders the configured proxy, or "" when none is set.
func proxyURL(s ServerOptions) string {
	if s.ProxyHost == "" {
		return ""
	}
	host := s.ProxyHost
	if s.ProxyPort > 0 {
		host = net.JoinHostPort(s.ProxyHost, strconv.Itoa(s.ProxyPort))
	}
	u := &url.URL{Scheme: "http", Host: host}
	if s.ProxyUserName != "" {
		u.User = url.UserPassword(s.ProxyUserName, s.ProxyPassword)
	}
	return u.String()
}

// Description implements discovery.Client.
func (c *Client) Description() string { return Description }

// ClientOptions returns the options the client was built with.
func (c *Client) ClientOptions() *ClientOptions { return c.clientOpts }

// InstanceOptions returns the options the instance registers with.
func (c *Client) InstanceOptions() *InstanceOptions { return c.instanceOpts }

// HTTPClient returns the client configured for the Eureka server.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

// Status returns the instance status reported to the server.
func (c *Client) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// SetStatus changes the instance status.
func (c *Client) SetStatus(status string) {
	c.mu.Lock()
	prev := c.status
	c.status = status
	c.mu.Unlock()
	if prev != status {
		c.log.Info("instance status changed", logger.Fields("from", prev, "to", status))
	}
}

// InstanceInfo returns the registration document for the current status.
func (c *Client) InstanceInfo() InstanceInfo {
	return NewInstanceInfo(c.instanceOpts, c.Status(), time.Now())
}

// RegistrationPayload renders the register request body.
func (c *Client) RegistrationPayload() ([]byte, error) {
	return json.Marshal(Registration{Instance: c.InstanceInfo()})
}

// LocalServiceInstance implements discovery.Client.
func (c *Client) LocalServiceInstance() discovery.ServiceInstance {
	opts := c.instanceOpts
	host := opts.EffectiveHostName()
	secure := !opts.NonSecurePortEnabled && opts.SecurePortEnabled
	port, scheme := opts.EffectiveNonSecurePort(), "http"
	if secure {
		port, scheme = opts.EffectiveSecurePort(), "https"
	}

	metadata := make(map[string]string, len(opts.MetadataMap))
	for k, v := range opts.MetadataMap {
		metadata[k] = v
	}
	return discovery.ServiceInstance{
		ServiceID: opts.AppName,
		Host:      host,
		Port:      port,
		Secure:    secure,
		URI:       fmt.Sprintf("%s://%s:%d", scheme, host, port),
		Metadata:  metadata,
	}
}

// CheckHealth maps the instance status onto a health result. STARTING and
// OUT_OF_SERVICE are degraded; statuses other than UP are unhealthy.
func (c *Client) CheckHealth(ctx context.Context) component.Health {
	status := c.Status()
	h := component.Health{
		Name:    "eureka",
		Message: status,
		Details: map[string]string{"service_url": c.clientOpts.ServiceURL},
	}
	switch status {
	case StatusUp:
		h.Status = component.StatusHealthy
	case StatusStarting, StatusOutOfService:
		h.Status = component.StatusDegraded
	default:
		h.Status = component.StatusUnhealthy
	}
	return h
}

// Close marks the instance DOWN and releases idle connections. It is safe
// to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.status = StatusDown
	c.mu.Unlock()

	c.httpClient.CloseIdleConnections()
	c.log.Info("eureka client closed")
	return nil
}
