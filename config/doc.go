// Package config provides the read-only configuration tree consumed by
// discovery resolution.
//
// A Tree is addressed by dot-separated, case-insensitive paths and is backed
// by Viper. LoadTree merges a YAML/JSON/TOML file, an optional .env file and
// the process environment:
//
//	tree, err := config.LoadTree("orders-api")
//	url := tree.GetString("eureka.client.serviceUrl")
//
// Environment variables map onto paths by splitting on "__", or on "_" when
// the name has no "__": EUREKA_CLIENT_SERVICEURL and
// EUREKA__CLIENT__SERVICEURL both set eureka.client.serviceurl.
//
// Viper folds key case. StringMap reads a mapping with the key spelling of
// the source document, for values such as instance metadata whose keys are
// data rather than configuration names.
package config
