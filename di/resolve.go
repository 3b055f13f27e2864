package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/discoverykit/errors"
)

// Resolve returns the component under key as a T. A component of another
// type is an INVALID_STATE error naming both types; lookup and constructor
// errors come back as the container reports them.
//
//	client, err := di.Resolve[discovery.Client](c, di.Pkg.DiscoveryClient)
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.InvalidState(key,
			fmt.Sprintf("component is %T, not %s", instance, reflect.TypeFor[T]()))
	}
	return typed, nil
}

// MustResolve is Resolve for startup wiring, where a missing component is a
// programming error. It panics with the resolve error.
func MustResolve[T any](c Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}

// TryResolve is Resolve for optional components. It reports false instead
// of an error.
func TryResolve[T any](c Container, key string) (T, bool) {
	v, err := Resolve[T](c, key)
	return v, err == nil
}
