// Package profiles defines the named graph configurations: which flags the graph
// compiler receives and which encoders turn its output into features.
package profiles

import (
	"fmt"
	"sort"
)

// Profile is an immutable set of feature switches
type Profile struct {
	Name string `json:"name" yaml:"name"`

	ProxyPrograml   bool `json:"proxyPrograml" yaml:"proxyPrograml"`
	InlineOnGraph   bool `json:"inlineOnGraph" yaml:"inlineOnGraph"`
	EncodeNodeType  bool `json:"encodeNodeType" yaml:"encodeNodeType"`
	EncodeBBID      bool `json:"encodeBBID" yaml:"encodeBBID"`
	EncodeFuncID    bool `json:"encodeFuncID" yaml:"encodeFuncID"`
	EncodeEdgeOrder bool `json:"encodeEdgeOrder" yaml:"encodeEdgeOrder"`

	AbsorbTypes     bool `json:"absorbTypes" yaml:"absorbTypes"`
	OneHotTypes     bool `json:"oneHotTypes" yaml:"oneHotTypes"`
	AbsorbPragmas   bool `json:"absorbPragmas" yaml:"absorbPragmas"`
	PipelinedUnroll bool `json:"pipelinedUnroll" yaml:"pipelinedUnroll"`
	ConvertAllocas  bool `json:"convertAllocas" yaml:"convertAllocas"`

	IgnoreControlFlow       bool `json:"ignoreControlFlow" yaml:"ignoreControlFlow"`
	MemoryOnlyControlFlow   bool `json:"memoryOnlyControlFlow" yaml:"memoryOnlyControlFlow"`
	AddNumCalls             bool `json:"addNumCalls" yaml:"addNumCalls"`
	ReduceIteratorBitwidths bool `json:"reduceIteratorBitwidths" yaml:"reduceIteratorBitwidths"`
	EncodeTripcount         bool `json:"encodeTripcount" yaml:"encodeTripcount"`
}

// ConfigurationError reports an invalid profile or run configuration
type ConfigurationError struct {
	Profile string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Profile == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid profile %s: %s", e.Profile, e.Reason)
}

// Base returns the profile every named profile starts from
func Base(name string) Profile {
	return Profile{
		Name:            name,
		ProxyPrograml:   true,
		EncodeNodeType:  true,
		EncodeBBID:      true,
		EncodeFuncID:    true,
		EncodeEdgeOrder: true,
		OneHotTypes:     true,
	}
}

// galway absorbs types and pragmas into the nodes they annotate
func galway() Profile {
	p := Base("galway")
	p.AbsorbTypes = true
	p.ConvertAllocas = true
	p.ProxyPrograml = false
	p.AbsorbPragmas = true
	p.EncodeNodeType = false
	p.EncodeBBID = false
	p.EncodeFuncID = false
	p.EncodeEdgeOrder = false
	return p
}

var named = map[string]func() Profile{
	"mayo": func() Profile {
		p := Base("mayo")
		p.EncodeNodeType = false
		p.EncodeBBID = false
		p.EncodeFuncID = false
		p.EncodeEdgeOrder = false
		return p
	},
	"galway": galway,
	"cavan": func() Profile {
		p := galway()
		p.Name = "cavan"
		p.AbsorbPragmas = false
		return p
	},
	"louth": func() Profile {
		p := galway()
		p.Name = "louth"
		p.PipelinedUnroll = true
		return p
	},
	"kerry": kerry,
	"cork": func() Profile {
		p := kerry()
		p.Name = "cork"
		p.PipelinedUnroll = true
		return p
	},
	"limerick": func() Profile {
		p := kerry()
		p.Name = "limerick"
		p.EncodeTripcount = true
		return p
	},
}

// kerry is galway with type characteristics instead of one-hot types
func kerry() Profile {
	p := galway()
	p.Name = "kerry"
	p.OneHotTypes = false
	return p
}

// Names lists the named profiles
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a named profile
func Lookup(name string) (Profile, error) {
	build, ok := named[name]
	if !ok {
		return Profile{}, &ConfigurationError{Profile: name, Reason: "unknown profile"}
	}
	return build(), nil
}

// Validate checks that the switches describe a graph the compiler can produce
func (p Profile) Validate() error {
	if !p.OneHotTypes && !p.AbsorbTypes {
		return &ConfigurationError{Profile: p.Name, Reason: "type characteristics need absorbed types"}
	}
	return nil
}
