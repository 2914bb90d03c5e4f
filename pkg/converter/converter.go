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

package converter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beevik/etree"
	cnserrors "github.com/dismine/valentina-sub004/pkg/errors"
	"github.com/dismine/valentina-sub004/pkg/version"
)

const indentSpaces = 4

// Checkpointer persists the intermediate state of a document after each
// conversion step.
type Checkpointer interface {
	Checkpoint(ctx context.Context, v version.Version, doc *etree.Document) error
}

// CheckpointFunc adapts a function to the Checkpointer interface.
type CheckpointFunc func(ctx context.Context, v version.Version, doc *etree.Document) error

// Checkpoint calls f.
func (f CheckpointFunc) Checkpoint(ctx context.Context, v version.Version, doc *etree.Document) error {
	return f(ctx, v, doc)
}

// Result reports what a conversion did.
type Result struct {
	Format     string            `json:"format" yaml:"format"`
	From       version.Version   `json:"from" yaml:"from"`
	To         version.Version   `json:"to" yaml:"to"`
	Applied    []version.Version `json:"applied,omitempty" yaml:"applied,omitempty"`
	Downgraded bool              `json:"downgraded,omitempty" yaml:"downgraded,omitempty"`
}

// Changed reports whether the document was modified.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0 || (r.Downgraded && !r.From.Equals(r.To))
}

// Converter runs the conversion pipeline of one format.
type Converter struct {
	format     *Format
	checkpoint Checkpointer
}

// Option is a functional option for configuring a Converter.
type Option func(*Converter)

// WithCheckpointer persists the document after every applied step.
func WithCheckpointer(c Checkpointer) Option {
	return func(cv *Converter) {
		cv.checkpoint = c
	}
}

// New creates a Converter for the given format.
func New(f *Format, opts ...Option) *Converter {
	c := &Converter{format: f}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format returns the converter's format.
func (c *Converter) Format() *Format {
	return c.format
}

// Convert upgrades doc in place to the format's maximum version and validates
// the result against that version's schema. A document already at the
// maximum version is only validated.
func (c *Converter) Convert(ctx context.Context, doc *etree.Document) (*Result, error) {
	return c.convert(ctx, doc, nil)
}

// ConvertBytes parses data, converts it, and returns the serialized result.
// Validation of a document that needed no upgrade reports positions in data.
func (c *Converter) ConvertBytes(ctx context.Context, data []byte) ([]byte, *Result, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, nil, err
	}
	res, err := c.convert(ctx, doc, data)
	if err != nil {
		return nil, res, err
	}
	if !res.Changed() {
		return data, res, nil
	}
	out, err := serialize(doc)
	if err != nil {
		return nil, res, err
	}
	return out, res, nil
}

func (c *Converter) convert(ctx context.Context, doc *etree.Document, raw []byte) (*Result, error) {
	start := time.Now()
	f := c.format

	res, err := c.run(ctx, doc, raw)
	status := "ok"
	if err != nil {
		status = string(cnserrors.CodeOf(err))
	}
	conversionsTotal.WithLabelValues(f.Name, status).Inc()
	conversionDuration.WithLabelValues(f.Name).Observe(time.Since(start).Seconds())
	return res, err
}

func (c *Converter) run(ctx context.Context, doc *etree.Document, raw []byte) (*Result, error) {
	f := c.format
	if err := c.checkRoot(doc); err != nil {
		return nil, err
	}

	from, err := DocumentVersion(doc)
	if err != nil {
		return nil, err
	}
	if !f.Supports(from) {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeUnsupportedVersion,
			fmt.Sprintf("%s version %s is outside the supported range %s..%s", f.Name, from, f.Min, f.Max),
			map[string]any{"format": f.Name, "version": from.String(), "min": f.Min.String(), "max": f.Max.String()})
	}
	idx, ok := f.startIndex(from)
	if !ok {
		return nil, cnserrors.NewWithContext(cnserrors.ErrCodeUnsupportedVersion,
			fmt.Sprintf("%s version %s is not a released format version", f.Name, from),
			map[string]any{"format": f.Name, "version": from.String()})
	}

	res := &Result{Format: f.Name, From: from, To: from}
	for _, p := range f.Patches[idx:] {
		select {
		case <-ctx.Done():
			return res, cnserrors.Wrap(cnserrors.ErrCodeInternal, "conversion canceled", ctx.Err())
		default:
		}

		if err := p.Apply(doc); err != nil {
			return res, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
				fmt.Sprintf("failed to convert %s from %s to %s", f.Name, p.From, p.To), err,
				map[string]any{"format": f.Name, "from": p.From.String(), "to": p.To.String()})
		}
		setDocumentVersion(doc, p.To)
		res.To = p.To
		res.Applied = append(res.Applied, p.To)
		patchesApplied.WithLabelValues(f.Name).Inc()

		if c.checkpoint != nil {
			if err := c.checkpoint.Checkpoint(ctx, p.To, doc); err != nil {
				return res, cnserrors.WrapWithContext(cnserrors.ErrCodeInternal,
					"failed to persist conversion step", err,
					map[string]any{"format": f.Name, "version": p.To.String()})
			}
		}
		slog.Debug("applied conversion step", "format", f.Name, "from", p.From.String(), "to", p.To.String())
	}

	if len(res.Applied) > 0 || raw == nil {
		raw, err = serialize(doc.Copy())
		if err != nil {
			return res, err
		}
	}
	if err := c.validate(raw); err != nil {
		return res, err
	}

	if len(res.Applied) > 0 {
		slog.Info("converted document", "format", f.Name, "from", res.From.String(), "to", res.To.String(),
			"steps", len(res.Applied))
	}
	return res, nil
}

// Downgrade rewrites the version tag of doc to the format's maximum version
// and validates the result. It is meant for documents whose structure is
// current but whose version string lags behind.
func (c *Converter) Downgrade(ctx context.Context, doc *etree.Document) (*Result, error) {
	f := c.format
	if err := c.checkRoot(doc); err != nil {
		return nil, err
	}
	from, err := DocumentVersion(doc)
	if err != nil {
		return nil, err
	}

	setDocumentVersion(doc, f.Max)
	res := &Result{Format: f.Name, From: from, To: f.Max, Downgraded: true}

	raw, err := serialize(doc.Copy())
	if err != nil {
		return res, err
	}
	if err := c.validate(raw); err != nil {
		return res, err
	}
	if c.checkpoint != nil {
		if err := c.checkpoint.Checkpoint(ctx, f.Max, doc); err != nil {
			return res, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to persist document", err)
		}
	}
	slog.Info("normalized document version", "format", f.Name, "from", from.String(), "to", f.Max.String())
	return res, nil
}

// Validate checks data against the schema of the format's maximum version.
func (c *Converter) Validate(data []byte) error {
	return c.validate(data)
}

func (c *Converter) validate(data []byte) error {
	s, err := c.format.Schema(c.format.Max)
	if err != nil {
		return err
	}
	return s.Validate(data)
}

func (c *Converter) checkRoot(doc *etree.Document) error {
	root := doc.Root()
	if root == nil {
		return cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document has no root element")
	}
	if root.Tag != c.format.RootTag {
		return cnserrors.NewWithContext(cnserrors.ErrCodeInvalidRequest,
			fmt.Sprintf("expected <%s> document, got <%s>", c.format.RootTag, root.Tag),
			map[string]any{"format": c.format.Name, "root": root.Tag})
	}
	return nil
}

func parseDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInvalidRequest, "failed to parse document", err)
	}
	if doc.Root() == nil {
		return nil, cnserrors.New(cnserrors.ErrCodeInvalidRequest, "document has no root element")
	}
	return doc, nil
}

// ParseDocument parses an XML document.
func ParseDocument(data []byte) (*etree.Document, error) {
	return parseDocument(data)
}

func serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(indentSpaces)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, cnserrors.Wrap(cnserrors.ErrCodeInternal, "failed to serialize document", err)
	}
	return out, nil
}

// Serialize writes doc as indented XML.
func Serialize(doc *etree.Document) ([]byte, error) {
	return serialize(doc)
}
