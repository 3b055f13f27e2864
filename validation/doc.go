// Package validation checks bound discovery options before a client is built.
//
// Struct tag validation covers per-field rules and reports field names by
// their configuration key:
//
//	type LeaseOptions struct {
//	    RenewalSeconds int `mapstructure:"leaseRenewalIntervalInSeconds" validate:"gt=0"`
//	}
//	err := validation.Validate(opts)
//
// Cross-field rules use the programmatic collector:
//
//	v := validation.New()
//	v.Merge("eureka.client", validation.Validate(client))
//	v.URL("eureka.client.serviceUrl", url)
//	v.Custom(!enabled || port > 0, "securePort", "must be set when securePortEnabled is true")
//	err := v.Err()
package validation
