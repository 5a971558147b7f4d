// internal/domain/models/options.go
package models

import "github.com/spf13/cast"

// DefaultOrder is the order of a group whose options carry no "order" key.
const DefaultOrder = 1

// OrderKey is the options key Order reads.
const OrderKey = "order"

// Options is the free-form settings map attached to a Group. Values keep
// whatever BSON/JSON type they were stored with, so numeric reads go
// through cast.
type Options map[string]interface{}

// Order returns the "order" option as an int. Missing or non-numeric
// values yield DefaultOrder. A nil map is treated as empty.
func (o Options) Order() int {
	v, ok := o[OrderKey]
	if !ok || v == nil {
		return DefaultOrder
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return DefaultOrder
	}
	return n
}

// Clone returns a shallow copy. Clone of nil is an empty map.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}
