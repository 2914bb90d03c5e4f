// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/version"
	"gopkg.in/yaml.v3"
)

//go:embed resources/*/*.yaml
var resourcesFS embed.FS

const resourceRoot = "resources"

// ValueType names the lexical type of an attribute value or text content.
type ValueType string

const (
	// TypeNone forbids non-whitespace text content.
	TypeNone ValueType = ""
	// TypeString accepts any value, including an empty one.
	TypeString ValueType = "string"
	// TypeToken accepts a non-empty value without surrounding whitespace.
	TypeToken ValueType = "token"
	// TypeDouble accepts a finite decimal number.
	TypeDouble ValueType = "double"
	// TypeUint accepts a non-negative integer.
	TypeUint ValueType = "uint"
	// TypeBool accepts true, false, 1 or 0.
	TypeBool ValueType = "bool"
	// TypeVersion accepts a major.minor.patch version.
	TypeVersion ValueType = "version"
	// TypeDate accepts a YYYY-MM-DD date.
	TypeDate ValueType = "date"
	// TypeEnum accepts one of the listed values.
	TypeEnum ValueType = "enum"
	// TypeList accepts a possibly empty ";" separated list of numbers.
	TypeList ValueType = "list"
	// TypeCSV accepts a possibly empty "," separated list of numbers.
	TypeCSV ValueType = "csv"
	// TypeUUID accepts an RFC 4122 UUID.
	TypeUUID ValueType = "uuid"
)

// Schema describes the structure of one format version.
type Schema struct {
	// Name is the resource name, for example "individual/v0.5.1".
	Name string `yaml:"-"`

	// Root is the required document element name.
	Root string `yaml:"root"`

	// Elements holds the definition of every element keyed by local name.
	Elements map[string]*Element `yaml:"elements"`
}

// Element describes one element.
type Element struct {
	Text       ValueType   `yaml:"text,omitempty"`
	Values     []string    `yaml:"values,omitempty"`
	Attributes []Attribute `yaml:"attributes,omitempty"`
	Children   []Child     `yaml:"children,omitempty"`
	Ordered    bool        `yaml:"ordered,omitempty"`
}

// Attribute describes one attribute of an element.
type Attribute struct {
	Name     string    `yaml:"name"`
	Type     ValueType `yaml:"type"`
	Required bool      `yaml:"required,omitempty"`
	Values   []string  `yaml:"values,omitempty"`
}

// Child describes an allowed child element. Max of zero means unbounded.
type Child struct {
	Name string `yaml:"name"`
	Min  int    `yaml:"min,omitempty"`
	Max  int    `yaml:"max,omitempty"`
}

func (e *Element) child(name string) (int, *Child) {
	for i := range e.Children {
		if e.Children[i].Name == name {
			return i, &e.Children[i]
		}
	}
	return -1, nil
}

func (e *Element) attribute(name string) *Attribute {
	for i := range e.Attributes {
		if e.Attributes[i].Name == name {
			return &e.Attributes[i]
		}
	}
	return nil
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Schema)
)

// ResourceName returns the resource name of a format version schema.
func ResourceName(format string, v version.Version) string {
	return path.Join(format, "v"+v.String())
}

// Load returns the schema of the given format at the given version string.
// Parsed schemas are cached for the life of the process.
func Load(format, ver string) (*Schema, error) {
	v, err := version.Parse(ver)
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeUnsupportedVersion,
			"invalid schema version", err, map[string]any{"format": format, "version": ver})
	}
	return LoadResource(ResourceName(format, v))
}

// LoadResource returns the schema stored under the given resource name.
func LoadResource(name string) (*Schema, error) {
	cacheMu.RLock()
	s, ok := cache[name]
	cacheMu.RUnlock()
	if ok {
		schemaCacheHits.Inc()
		return s, nil
	}

	data, err := resourcesFS.ReadFile(path.Join(resourceRoot, name+".yaml"))
	if err != nil {
		return nil, cnserrors.WrapWithContext(cnserrors.ErrCodeNotFound,
			"schema resource not found", err, map[string]any{"resource": name})
	}

	s, err = parse(name, data)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[name] = s
	cacheMu.Unlock()
	schemaCacheMisses.Inc()
	return s, nil
}

func parse(name string, data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal,
			fmt.Sprintf("failed to parse schema %s", name), err)
	}
	s.Name = name
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// check verifies the schema is self-consistent.
func (s *Schema) check() error {
	if s.Root == "" {
		return cnserrors.New(cnserrors.ErrCodeInternal, fmt.Sprintf("schema %s has no root", s.Name))
	}
	if _, ok := s.Elements[s.Root]; !ok {
		return cnserrors.New(cnserrors.ErrCodeInternal,
			fmt.Sprintf("schema %s does not define root element %s", s.Name, s.Root))
	}
	for name, el := range s.Elements {
		if el == nil {
			return cnserrors.New(cnserrors.ErrCodeInternal,
				fmt.Sprintf("schema %s: element %s is empty", s.Name, name))
		}
		for _, c := range el.Children {
			if _, ok := s.Elements[c.Name]; !ok {
				return cnserrors.New(cnserrors.ErrCodeInternal,
					fmt.Sprintf("schema %s: element %s references undefined child %s", s.Name, name, c.Name))
			}
			if c.Max > 0 && c.Min > c.Max {
				return cnserrors.New(cnserrors.ErrCodeInternal,
					fmt.Sprintf("schema %s: child %s of %s has min > max", s.Name, c.Name, name))
			}
		}
		if el.Text == TypeEnum && len(el.Values) == 0 {
			return cnserrors.New(cnserrors.ErrCodeInternal,
				fmt.Sprintf("schema %s: enum element %s has no values", s.Name, name))
		}
		for _, a := range el.Attributes {
			if a.Type == TypeEnum && len(a.Values) == 0 {
				return cnserrors.New(cnserrors.ErrCodeInternal,
					fmt.Sprintf("schema %s: enum attribute %s@%s has no values", s.Name, name, a.Name))
			}
		}
	}
	return nil
}

// Available lists the resource names of every embedded schema, sorted.
func Available() ([]string, error) {
	var names []string
	err := fs.WalkDir(resourcesFS, resourceRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".yaml") {
			return nil
		}
		rel := strings.TrimPrefix(p, resourceRoot+"/")
		names = append(names, strings.TrimSuffix(rel, ".yaml"))
		return nil
	})
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to list schema resources", err)
	}
	sort.Strings(names)
	return names, nil
}
