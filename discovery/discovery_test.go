package discovery_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kbukum/discoverykit/cloudfoundry"
	"github.com/kbukum/discoverykit/component"
	"github.com/kbukum/discoverykit/config"
	"github.com/kbukum/discoverykit/di"
	"github.com/kbukum/discoverykit/discovery"
	"github.com/kbukum/discoverykit/discovery/eureka"
	"github.com/kbukum/discoverykit/errors"
	"github.com/kbukum/discoverykit/logger"
)

func jsonTree(t *testing.T, doc string) config.Tree {
	t.Helper()
	tree, err := config.ReadTree("json", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadTree failed: %v", err)
	}
	return tree
}

func registryBinding(name string) cloudfoundry.ServiceBinding {
	return cloudfoundry.ServiceBinding{
		Name:  name,
		Label: "p-service-registry",
		Plan:  "standard",
		Tags:  []string{"eureka", "discovery", "registry", "spring-cloud"},
		Credentials: map[string]string{
			"uri":              "https://eureka-6a1b81f5.apps.testcloud.com",
			"client_id":        "p-service-registry-06e28efd",
			"client_secret":    "dCsdoiuklicS",
			"access_token_uri": "https://p-spring-cloud-services.uaa.system.testcloud.com/oauth/token",
		},
	}
}

func newRegistrar(src cloudfoundry.Source) *discovery.Registrar {
	log := logger.NewNop()
	return discovery.NewRegistrar(
		discovery.WithRegistrarLogger(log),
		discovery.WithResolver(discovery.NewResolver(
			discovery.WithSource(src),
			discovery.WithResolverLogger(log),
		)),
	)
}

func assertCode(t *testing.T, err error, code errors.ErrorCode, contains string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !errors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected %q in error, got %q", contains, err.Error())
	}
}

const eurekaConfig = `{
  "spring": {"application": {"name": "myName"}},
  "eureka": {
    "client": {
      "shouldFetchRegistry": false,
      "shouldRegisterWithEureka": false,
      "serviceUrl": "http://localhost:8761/eureka/"
    }
  }
}`

func TestClientType_String(t *testing.T) {
	tests := []struct {
		ct   discovery.ClientType
		want string
	}{
		{discovery.ClientTypeUnknown, "UNKNOWN"},
		{discovery.ClientTypeEureka, "EUREKA"},
		{discovery.ClientType(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("ClientType(%d).String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
	if discovery.ParseClientType(" eureka ") != discovery.ClientTypeEureka {
		t.Error("expected ParseClientType to ignore case and space")
	}
	if discovery.ParseClientType("consul") != discovery.ClientTypeUnknown {
		t.Error("expected unrecognised name to parse as UNKNOWN")
	}
}

func TestNewOptions_DefaultsToUnknown(t *testing.T) {
	opts := discovery.NewOptions()
	if opts.ClientType != discovery.ClientTypeUnknown {
		t.Errorf("expected UNKNOWN, got %s", opts.ClientType)
	}
	if opts.ClientOptions != nil || opts.RegistrationOptions != nil {
		t.Error("expected nil payloads")
	}
}

func TestBind_NilConfig(t *testing.T) {
	_, err := discovery.Bind(nil)
	assertCode(t, err, errors.ErrCodeInvalidArgument, "config")
}

func TestBind_WithoutClientBranch_IsUnknown(t *testing.T) {
	trees := map[string]string{
		"empty":         `{}`,
		"app name only": `{"spring": {"application": {"name": "myName"}}}`,
		"instance only": `{"eureka": {"instance": {"appName": "orders"}}}`,
	}
	for name, doc := range trees {
		t.Run(name, func(t *testing.T) {
			opts, err := discovery.Bind(jsonTree(t, doc))
			if err != nil {
				t.Fatalf("Bind failed: %v", err)
			}
			if opts.ClientType != discovery.ClientTypeUnknown {
				t.Errorf("expected UNKNOWN, got %s", opts.ClientType)
			}
			if opts.ClientOptions != nil || opts.RegistrationOptions != nil {
				t.Error("expected nil payloads")
			}
		})
	}
}

func TestBind_EurekaClientBranch(t *testing.T) {
	opts, err := discovery.Bind(jsonTree(t, eurekaConfig))
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if opts.ClientType != discovery.ClientTypeEureka {
		t.Fatalf("expected EUREKA, got %s", opts.ClientType)
	}
	co, ok := opts.ClientOptions.(*eureka.ClientOptions)
	if !ok {
		t.Fatalf("expected *eureka.ClientOptions, got %T", opts.ClientOptions)
	}
	if co.ServiceURL != "http://localhost:8761/eureka/" {
		t.Errorf("unexpected service url %q", co.ServiceURL)
	}
	if co.ShouldFetchRegistry || co.ShouldRegisterWithEureka {
		t.Error("expected fetch and register to be disabled")
	}
	ro, ok := opts.RegistrationOptions.(*eureka.InstanceOptions)
	if !ok {
		t.Fatalf("expected *eureka.InstanceOptions, got %T", opts.RegistrationOptions)
	}
	if ro.AppName != "myName" {
		t.Errorf("expected spring.application.name fallback, got %q", ro.AppName)
	}
}

func TestResolveServiceBinding(t *testing.T) {
	services := cloudfoundry.Services{
		"p-service-registry": {registryBinding("myDiscoveryService")},
		"p-mysql":            {{Name: "db", Label: "p-mysql", Tags: []string{"mysql"}}},
	}

	o, err := discovery.ResolveServiceBinding(services, "")
	if err != nil {
		t.Fatalf("ResolveServiceBinding failed: %v", err)
	}
	if o == nil {
		t.Fatal("expected an override")
	}
	if o.ClientType != discovery.ClientTypeEureka || o.BindingName != "myDiscoveryService" {
		t.Errorf("unexpected override %+v", o)
	}
	if o.ServiceURL != "https://eureka-6a1b81f5.apps.testcloud.com" || o.ClientSecret != "dCsdoiuklicS" {
		t.Errorf("unexpected credentials %+v", o)
	}

	o, err = discovery.ResolveServiceBinding(services, "myDiscoveryService")
	if err != nil || o == nil {
		t.Fatalf("expected named match, got %v (err=%v)", o, err)
	}
}

func TestResolveServiceBinding_NoMatch(t *testing.T) {
	o, err := discovery.ResolveServiceBinding(nil, "")
	if err != nil || o != nil {
		t.Errorf("expected no override and no error, got %v (err=%v)", o, err)
	}

	_, err = discovery.ResolveServiceBinding(nil, "foobar")
	assertCode(t, err, errors.ErrCodeServiceNotFound, "foobar")

	services := cloudfoundry.Services{"p-service-registry": {registryBinding("other")}}
	_, err = discovery.ResolveServiceBinding(services, "foobar")
	assertCode(t, err, errors.ErrCodeServiceNotFound, "foobar")
}

func TestResolveServiceBinding_Multiple(t *testing.T) {
	services := cloudfoundry.Services{
		"p-service-registry": {registryBinding("myDiscoveryService"), registryBinding("myDiscoveryService2")},
	}
	_, err := discovery.ResolveServiceBinding(services, "")
	assertCode(t, err, errors.ErrCodeAmbiguousBinding, "Multiple")
	if !strings.Contains(err.Error(), "myDiscoveryService, myDiscoveryService2") {
		t.Errorf("expected candidate names in error, got %q", err.Error())
	}

	// a name filter disambiguates
	o, err := discovery.ResolveServiceBinding(services, "myDiscoveryService2")
	if err != nil || o.BindingName != "myDiscoveryService2" {
		t.Errorf("expected named binding, got %v (err=%v)", o, err)
	}
}

func TestResolver_ArgumentChecks(t *testing.T) {
	r := discovery.NewResolver(discovery.WithSource(cloudfoundry.StaticSource{}))
	ctx := context.Background()

	_, err := r.Resolve(ctx, nil)
	assertCode(t, err, errors.ErrCodeInvalidArgument, "config")

	_, err = r.ResolveNamed(ctx, nil, "svc")
	assertCode(t, err, errors.ErrCodeInvalidArgument, "config")

	_, err = r.ResolveNamed(ctx, jsonTree(t, `{}`), "")
	assertCode(t, err, errors.ErrCodeInvalidArgument, "serviceName")
}

func TestResolver_ConfigOnly(t *testing.T) {
	r := discovery.NewResolver(discovery.WithSource(cloudfoundry.StaticSource{}))
	opts, err := r.Resolve(context.Background(), jsonTree(t, eurekaConfig))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if opts.ClientType != discovery.ClientTypeEureka {
		t.Fatalf("expected EUREKA, got %s", opts.ClientType)
	}
	if url := opts.ClientOptions.(*eureka.ClientOptions).ServiceURL; url != "http://localhost:8761/eureka/" {
		t.Errorf("unexpected service url %q", url)
	}
}

func TestResolver_BindingOverridesConfig(t *testing.T) {
	src := cloudfoundry.StaticSource{
		Bindings: cloudfoundry.Services{"p-service-registry": {registryBinding("myDiscoveryService")}},
	}
	r := discovery.NewResolver(discovery.WithSource(src))

	opts, err := r.Resolve(context.Background(), jsonTree(t, eurekaConfig))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	co := opts.ClientOptions.(*eureka.ClientOptions)
	if co.ServiceURL != "https://eureka-6a1b81f5.apps.testcloud.com/eureka/" {
		t.Errorf("expected binding url to win, got %q", co.ServiceURL)
	}
	if co.ClientID != "p-service-registry-06e28efd" || co.ClientSecret != "dCsdoiuklicS" {
		t.Errorf("expected binding credentials, got %q/%q", co.ClientID, co.ClientSecret)
	}
	if co.AccessTokenURI != "https://p-spring-cloud-services.uaa.system.testcloud.com/oauth/token" {
		t.Errorf("unexpected token uri %q", co.AccessTokenURI)
	}
	if co.ShouldFetchRegistry {
		t.Error("expected configured flags to survive the merge")
	}
}

func TestResolver_BindingWithoutConfig_SelectsEureka(t *testing.T) {
	src := cloudfoundry.StaticSource{
		Bindings: cloudfoundry.Services{"p-service-registry": {registryBinding("myDiscoveryService")}},
	}
	r := discovery.NewResolver(discovery.WithSource(src))

	opts, err := r.Resolve(context.Background(), jsonTree(t, `{"spring": {"application": {"name": "orders"}}}`))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if opts.ClientType != discovery.ClientTypeEureka {
		t.Fatalf("expected EUREKA, got %s", opts.ClientType)
	}
	co := opts.ClientOptions.(*eureka.ClientOptions)
	if !co.ShouldFetchRegistry || !co.ShouldRegisterWithEureka {
		t.Error("expected default flags")
	}
	if co.ServiceURL != "https://eureka-6a1b81f5.apps.testcloud.com/eureka/" {
		t.Errorf("unexpected service url %q", co.ServiceURL)
	}
	if ro := opts.RegistrationOptions.(*eureka.InstanceOptions); ro.AppName != "orders" {
		t.Errorf("expected app name from config, got %q", ro.AppName)
	}
}

func TestResolver_NamedBindingNotFound(t *testing.T) {
	r := discovery.NewResolver(discovery.WithSource(cloudfoundry.StaticSource{}))
	_, err := r.ResolveNamed(context.Background(), jsonTree(t, eurekaConfig), "foobar")
	assertCode(t, err, errors.ErrCodeServiceNotFound, "foobar")
}

func TestResolver_MalformedEnvironment(t *testing.T) {
	src := &cloudfoundry.EnvSource{Getenv: func(k string) string {
		if k == cloudfoundry.EnvServices {
			return "{broken"
		}
		return ""
	}}
	r := discovery.NewResolver(discovery.WithSource(src))
	_, err := r.Resolve(context.Background(), jsonTree(t, eurekaConfig))
	assertCode(t, err, errors.ErrCodeInvalidInput, "VCAP_SERVICES")
}

func TestResolver_ApplicationDefaults(t *testing.T) {
	src := cloudfoundry.StaticSource{
		App: &cloudfoundry.Application{
			ApplicationName: "spring-cloud-broker",
			ApplicationURIs: []string{"spring-cloud-broker.apps.testcloud.com"},
			InstanceID:      "a1b2c3",
		},
	}
	r := discovery.NewResolver(discovery.WithSource(src))
	tree := jsonTree(t, `{
	  "spring": {"cloud": {"discovery": {"registrationMethod": "route"}}},
	  "eureka": {"client": {"serviceUrl": "http://localhost:8761/eureka/"}}
	}`)

	opts, err := r.Resolve(context.Background(), tree)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	ro := opts.RegistrationOptions.(*eureka.InstanceOptions)
	if ro.AppName != "spring-cloud-broker" {
		t.Errorf("expected platform app name, got %q", ro.AppName)
	}
	if ro.HostName != "spring-cloud-broker.apps.testcloud.com" || ro.NonSecurePort != 80 {
		t.Errorf("expected route host and port 80, got %q:%d", ro.HostName, ro.NonSecurePort)
	}
	if ro.InstanceID != "spring-cloud-broker.apps.testcloud.com:a1b2c3" {
		t.Errorf("unexpected instance id %q", ro.InstanceID)
	}
}

func TestRegistrar_ArgumentChecks(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	ctx := context.Background()
	c := di.NewContainer()
	tree := jsonTree(t, eurekaConfig)
	opts := &discovery.Options{ClientType: discovery.ClientTypeEureka}
	setup := func(*discovery.Options) {}

	tests := []struct {
		name  string
		call  func() error
		param string
	}{
		{"config/container", func() error { return reg.RegisterFromConfig(ctx, nil, tree) }, "container"},
		{"config/config", func() error { return reg.RegisterFromConfig(ctx, c, nil) }, "config"},
		{"named/container", func() error { return reg.RegisterFromConfigNamed(ctx, nil, tree, "svc") }, "container"},
		{"named/serviceName", func() error { return reg.RegisterFromConfigNamed(ctx, c, tree, "") }, "serviceName"},
		{"named/serviceName before config", func() error { return reg.RegisterFromConfigNamed(ctx, c, nil, "") }, "serviceName"},
		{"named/config", func() error { return reg.RegisterFromConfigNamed(ctx, c, nil, "svc") }, "config"},
		{"options/container", func() error { return reg.RegisterFromOptions(ctx, nil, opts) }, "container"},
		{"options/options", func() error { return reg.RegisterFromOptions(ctx, c, nil) }, "options"},
		{"setup/container", func() error { return reg.RegisterFromSetup(ctx, nil, setup) }, "container"},
		{"setup/setup", func() error { return reg.RegisterFromSetup(ctx, c, nil) }, "setup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), errors.ErrCodeInvalidArgument, tt.param)
		})
	}
	if c.Has(di.Pkg.DiscoveryClient) {
		t.Error("expected container to stay empty after argument errors")
	}
}

func TestRegisterFromOptions_Unknown_LeavesContainerEmpty(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	err := reg.RegisterFromOptions(context.Background(), c, discovery.NewOptions())
	assertCode(t, err, errors.ErrCodeInvalidState, "UNKNOWN")
	if c.Has(di.Pkg.DiscoveryClient) {
		t.Error("expected no discovery client registration")
	}
}

func TestRegisterFromConfig_Eureka_EndToEnd(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	if err := reg.RegisterFromConfig(context.Background(), c, jsonTree(t, eurekaConfig)); err != nil {
		t.Fatalf("RegisterFromConfig failed: %v", err)
	}

	client, err := di.Resolve[discovery.Client](c, di.Pkg.DiscoveryClient)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if client.Description() != eureka.Description {
		t.Errorf("expected eureka client, got %q", client.Description())
	}
	ec := client.(*eureka.Client)
	if ec.ClientOptions().ServiceURL != "http://localhost:8761/eureka/" {
		t.Errorf("unexpected service url %q", ec.ClientOptions().ServiceURL)
	}

	opts, err := di.Resolve[*discovery.Options](c, di.Pkg.DiscoveryOptions)
	if err != nil {
		t.Fatalf("resolve options failed: %v", err)
	}
	if opts.ClientType != discovery.ClientTypeEureka {
		t.Errorf("expected EUREKA options, got %s", opts.ClientType)
	}
}

func TestRegisterFromConfig_NoEurekaConfig_RegistersUnknownClient(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	tree := jsonTree(t, `{"spring": {"application": {"name": "myName"}}}`)
	if err := reg.RegisterFromConfig(context.Background(), c, tree); err != nil {
		t.Fatalf("RegisterFromConfig failed: %v", err)
	}
	client := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient)
	if client.Description() != "Unknown" {
		t.Errorf("expected Unknown client, got %q", client.Description())
	}
}

func TestRegisterFromConfig_MultipleBindings(t *testing.T) {
	src := cloudfoundry.StaticSource{
		Bindings: cloudfoundry.Services{
			"p-service-registry": {registryBinding("myDiscoveryService"), registryBinding("myDiscoveryService2")},
		},
	}
	reg := newRegistrar(src)
	c := di.NewContainer()

	err := reg.RegisterFromConfig(context.Background(), c, jsonTree(t, `{}`))
	assertCode(t, err, errors.ErrCodeAmbiguousBinding, "Multiple")
	if c.Has(di.Pkg.DiscoveryClient) {
		t.Error("expected no registration after failure")
	}
}

func TestRegisterFromConfigNamed_NotFound(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	err := reg.RegisterFromConfigNamed(context.Background(), di.NewContainer(), jsonTree(t, `{}`), "foobar")
	assertCode(t, err, errors.ErrCodeServiceNotFound, "foobar")
}

func TestRegisterFromOptions_Eureka(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	co := eureka.DefaultClientOptions()
	co.ShouldFetchRegistry = false
	co.ShouldRegisterWithEureka = false
	opts := &discovery.Options{ClientType: discovery.ClientTypeEureka, ClientOptions: co}

	if err := reg.RegisterFromOptions(context.Background(), c, opts); err != nil {
		t.Fatalf("RegisterFromOptions failed: %v", err)
	}
	client := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient)
	if client == nil {
		t.Fatal("expected client")
	}
}

func TestRegisterFromOptions_Twice_AddsTwoRegistrations(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	for _, url := range []string{"http://first:8761/eureka/", "http://second:8761/eureka/"} {
		co := eureka.DefaultClientOptions()
		co.ServiceURL = url
		opts := &discovery.Options{ClientType: discovery.ClientTypeEureka, ClientOptions: co}
		if err := reg.RegisterFromOptions(context.Background(), c, opts); err != nil {
			t.Fatalf("RegisterFromOptions failed: %v", err)
		}
	}

	var factories int
	for _, info := range c.Registrations() {
		if info.Key == di.Pkg.DiscoveryClient {
			factories++
		}
	}
	if factories != 2 {
		t.Errorf("expected two client registrations, got %d", factories)
	}
	ec := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient).(*eureka.Client)
	if ec.ClientOptions().ServiceURL != "http://second:8761/eureka/" {
		t.Errorf("expected the latest registration to resolve, got %q", ec.ClientOptions().ServiceURL)
	}
}

func TestRegisterFromOptions_MissingPayloads_UsesDefaults(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	opts := &discovery.Options{ClientType: discovery.ClientTypeEureka}
	if err := reg.RegisterFromOptions(context.Background(), c, opts); err != nil {
		t.Fatalf("RegisterFromOptions failed: %v", err)
	}
	ec := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient).(*eureka.Client)
	if ec.ClientOptions().ServiceURL != eureka.DefaultServiceURL {
		t.Errorf("expected default client options, got %q", ec.ClientOptions().ServiceURL)
	}
	if ec.InstanceOptions().LeaseRenewalIntervalInSeconds != eureka.DefaultLeaseRenewalIntervalInSeconds {
		t.Error("expected default instance options")
	}
}

func TestRegisterFromOptions_ValidationFailure(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	inst := eureka.DefaultInstanceOptions()
	inst.LeaseRenewalIntervalInSeconds = 0
	opts := &discovery.Options{ClientType: discovery.ClientTypeEureka, RegistrationOptions: inst}

	err := reg.RegisterFromOptions(context.Background(), c, opts)
	assertCode(t, err, errors.ErrCodeInvalidInput, "leaseRenewalIntervalInSeconds")
	if c.Has(di.Pkg.DiscoveryClient) {
		t.Error("expected no registration after validation failure")
	}
}

func TestRegisterFromSetup(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()

	err := reg.RegisterFromSetup(context.Background(), c, func(o *discovery.Options) {
		o.ClientType = discovery.ClientTypeEureka
		co := eureka.DefaultClientOptions()
		co.ShouldFetchRegistry = false
		co.ShouldRegisterWithEureka = false
		o.ClientOptions = co
		o.RegistrationOptions = eureka.DefaultInstanceOptions()
	})
	if err != nil {
		t.Fatalf("RegisterFromSetup failed: %v", err)
	}
	if _, err := di.Resolve[discovery.Client](c, di.Pkg.DiscoveryClient); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
}

func TestRegisterFromSetup_LeftUnknown(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	err := reg.RegisterFromSetup(context.Background(), di.NewContainer(), func(*discovery.Options) {})
	assertCode(t, err, errors.ErrCodeInvalidState, "UNKNOWN")
}

const fakeType = discovery.ClientType(99)

type fakeClientOptions struct{}

func (fakeClientOptions) ClientType() discovery.ClientType { return fakeType }

type fakeClient struct{ discovery.UnknownClient }

func (fakeClient) Description() string { return "fake" }

func TestRegistrar_ConstructsClientLazilyOnce(t *testing.T) {
	var built int32
	discovery.RegisterProvider(discovery.Provider{
		Type:                       fakeType,
		DefaultClientOptions:       func() discovery.ClientOptions { return fakeClientOptions{} },
		DefaultRegistrationOptions: func() discovery.RegistrationOptions { return fakeClientOptions{} },
		NewClient: func(discovery.ClientOptions, discovery.RegistrationOptions, *logger.Logger) (discovery.Client, error) {
			atomic.AddInt32(&built, 1)
			return fakeClient{}, nil
		},
	})

	reg := newRegistrar(cloudfoundry.StaticSource{})
	c := di.NewContainer()
	if err := reg.RegisterFromOptions(context.Background(), c, &discovery.Options{ClientType: fakeType}); err != nil {
		t.Fatalf("RegisterFromOptions failed: %v", err)
	}
	if atomic.LoadInt32(&built) != 0 {
		t.Fatal("expected no client construction during registration")
	}

	first := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient)
	second := di.MustResolve[discovery.Client](c, di.Pkg.DiscoveryClient)
	if first.Description() != "fake" || second.Description() != "fake" {
		t.Error("expected fake client")
	}
	if atomic.LoadInt32(&built) != 1 {
		t.Errorf("expected one construction, got %d", built)
	}
}

func TestRegisterFromOptions_PayloadTypeMismatch(t *testing.T) {
	reg := newRegistrar(cloudfoundry.StaticSource{})
	opts := &discovery.Options{ClientType: discovery.ClientTypeEureka, ClientOptions: fakeClientOptions{}}
	err := reg.RegisterFromOptions(context.Background(), di.NewContainer(), opts)
	assertCode(t, err, errors.ErrCodeInvalidState, "EUREKA")
}

func TestPackageLevelRegister(t *testing.T) {
	c := di.NewContainer()
	err := discovery.RegisterFromOptions(context.Background(), c, discovery.NewOptions())
	assertCode(t, err, errors.ErrCodeInvalidState, "UNKNOWN")

	err = discovery.RegisterFromSetup(context.Background(), c, nil)
	assertCode(t, err, errors.ErrCodeInvalidArgument, "setup")
}

func TestComponent_Lifecycle(t *testing.T) {
	c := di.NewContainer()
	comp := discovery.NewComponent(c, jsonTree(t, eurekaConfig), logger.NewNop(),
		discovery.WithRegistrar(newRegistrar(cloudfoundry.StaticSource{})))

	var _ component.Component = comp
	if comp.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("expected unhealthy before start")
	}

	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if comp.Client() == nil {
		t.Fatal("expected client after start")
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	desc := comp.Describe()
	if desc.Type != "discovery" || !strings.Contains(desc.Details, eureka.Description) {
		t.Errorf("unexpected description %+v", desc)
	}
	if len(comp.Routes()) != 2 {
		t.Errorf("expected status and health routes, got %v", comp.Routes())
	}

	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after stop, got %s", h.Status)
	}
}

func TestComponent_StartFailsOnMissingNamedBinding(t *testing.T) {
	comp := discovery.NewComponent(di.NewContainer(), jsonTree(t, `{}`), logger.NewNop(),
		discovery.WithRegistrar(newRegistrar(cloudfoundry.StaticSource{})),
		discovery.WithServiceName("foobar"))

	err := comp.Start(context.Background())
	assertCode(t, err, errors.ErrCodeServiceNotFound, "foobar")
}

func TestComponent_UnknownClient(t *testing.T) {
	comp := discovery.NewComponent(di.NewContainer(), jsonTree(t, `{}`), logger.NewNop(),
		discovery.WithRegistrar(newRegistrar(cloudfoundry.StaticSource{})))
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy unknown client, got %s", h.Status)
	}
	if comp.Routes() != nil {
		t.Error("expected no routes for unknown client")
	}
}
