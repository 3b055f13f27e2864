package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// Tree is a read-only view over hierarchical configuration.
// Keys are dot-separated paths and are matched case-insensitively.
type Tree interface {
	// Get returns the raw value at key, or nil.
	Get(key string) any
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int

	// IsSet reports whether key holds a leaf value or a nested mapping.
	IsSet(key string) bool

	// Sub returns the subtree rooted at key, or nil if key is absent or a leaf.
	Sub(key string) Tree

	// UnmarshalKey decodes the subtree at key into out using mapstructure
	// tags. Fields of out that have no matching key keep their values.
	UnmarshalKey(key string, out any) error

	// StringMap returns the depth-1 mapping at key with its keys spelled as
	// in the source document. It never returns nil.
	StringMap(key string) map[string]string

	// AllKeys lists every leaf key in the tree.
	AllKeys() []string
}

type viperTree struct {
	v *viper.Viper

	// doc is the decoded source document. Viper folds key case, so doc is
	// the only place the original spelling of a key survives.
	doc map[string]any
}

// NewTree wraps an existing Viper instance. Keys read back through
// StringMap are lower-cased, as Viper stores them.
func NewTree(v *viper.Viper) Tree {
	return &viperTree{v: v}
}

// FromMap builds a Tree from nested maps, e.g. decoded JSON.
func FromMap(m map[string]any) Tree {
	v := viper.New()
	for k, val := range m {
		v.Set(k, val)
	}
	return &viperTree{v: v, doc: m}
}

// ReadTree parses configuration of the given format ("json", "yaml", "toml")
// from r.
func ReadTree(format string, r io.Reader) (Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s configuration: %w", format, err)
	}
	return parseTree(format, data)
}

func parseTree(format string, data []byte) (*viperTree, error) {
	format = strings.ToLower(format)
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse %s configuration: %w", format, err)
	}
	doc, err := decodeDocument(format, data)
	if err != nil {
		return nil, err
	}
	return &viperTree{v: v, doc: doc}, nil
}

func (t *viperTree) Get(key string) any          { return t.v.Get(key) }
func (t *viperTree) GetString(key string) string { return t.v.GetString(key) }
func (t *viperTree) GetBool(key string) bool     { return t.v.GetBool(key) }
func (t *viperTree) GetInt(key string) int       { return t.v.GetInt(key) }
func (t *viperTree) IsSet(key string) bool       { return t.v.IsSet(key) }
func (t *viperTree) AllKeys() []string           { return t.v.AllKeys() }

func (t *viperTree) Sub(key string) Tree {
	sub := t.v.Sub(key)
	if sub == nil {
		// keep the interface nil, not a typed nil
		return nil
	}
	doc, _ := lookupPath(t.doc, key).(map[string]any)
	return &viperTree{v: sub, doc: doc}
}

func (t *viperTree) UnmarshalKey(key string, out any) error {
	if err := t.v.UnmarshalKey(key, out); err != nil {
		return fmt.Errorf("failed to decode configuration at %q: %w", key, err)
	}
	return nil
}

// StringMap takes values from Viper, so environment overrides apply, and
// restores each key's spelling from the source document where it has one.
func (t *viperTree) StringMap(key string) map[string]string {
	values := t.v.GetStringMapString(key)
	spelled := keySpellings(lookupPath(t.doc, key))

	out := make(map[string]string, len(values))
	for k, val := range values {
		if name, ok := spelled[k]; ok {
			k = name
		}
		out[k] = val
	}
	return out
}
