package discovery

// Client is the discovery-client capability registered in the container.
type Client interface {
	// Description names the implementation, e.g. "Unknown".
	Description() string

	// LocalServiceInstance describes this instance as it registers itself.
	LocalServiceInstance() ServiceInstance

	// Close releases resources held by the client.
	Close() error
}

// UnknownClient is registered when configuration selects no registry. It
// discovers nothing and registers nothing.
type UnknownClient struct{}

// UnknownDescription is the description reported by UnknownClient.
const UnknownDescription = "Unknown"

func (UnknownClient) Description() string                   { return UnknownDescription }
func (UnknownClient) LocalServiceInstance() ServiceInstance { return ServiceInstance{} }
func (UnknownClient) Close() error                          { return nil }
