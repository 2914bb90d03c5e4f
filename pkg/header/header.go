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

package header

import (
	"time"
)

// APIVersion is the version of the export documents written by vmeasure.
const APIVersion = "vmeasure.dev/v1"

// Kind identifies the type of an exported document.
type Kind string

const (
	KindGradationTable   Kind = "GradationTable"
	KindConversionReport Kind = "ConversionReport"
	KindValidationResult Kind = "ValidationResult"
	KindDimensionValues  Kind = "DimensionValues"
	KindChangeSet        Kind = "ChangeSet"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindGradationTable, KindConversionReport, KindValidationResult, KindDimensionValues, KindChangeSet:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithSource returns an Option recording the file an export was made from.
func WithSource(path string) Option {
	return WithMetadata("source", path)
}

// New creates a Header for kind stamped with the current time and the tool
// version. Options are applied last.
func New(kind Kind, toolVersion string, opts ...Option) *Header {
	h := &Header{}
	h.Init(kind, toolVersion, opts...)
	return h
}

// Header precedes every exported document.
type Header struct {
	// Kind is the type of the exported document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the version of the export format.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs such as timestamp, tool version and source file.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init sets the kind and API version and resets Metadata to the timestamp
// and, when not empty, the tool version. Options are applied last.
func (h *Header) Init(kind Kind, toolVersion string, opts ...Option) {
	h.Kind = kind
	h.APIVersion = APIVersion
	h.Metadata = map[string]string{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if toolVersion != "" {
		h.Metadata["version"] = toolVersion
	}
	for _, opt := range opts {
		opt(h)
	}
}
