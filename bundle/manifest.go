// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package bundle

import (
	"bytes"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"

	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/extension"
)

// Manifest is the serialized form of a bundle. It holds either a single
// descriptor at the top level or a list under "extensions".
//
//	extensions:
//	  - id: mysql
//	    name: MySQL
//	    menuItems:
//	      - key: mysql
//	        label: MySQL
//	        order: 10
type Manifest struct {
	Extensions []*extension.Descriptor `json:"extensions,omitempty"`
}

// Decode parses a YAML or JSON manifest.
func Decode(payload []byte) ([]*extension.Descriptor, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.ErrEmptyManifest
	}

	manifest := new(Manifest)
	if err := yaml.Unmarshal(payload, manifest); err != nil {
		return nil, err
	}

	if len(manifest.Extensions) > 0 {
		return manifest.Extensions, nil
	}

	descriptor := new(extension.Descriptor)
	if err := yaml.Unmarshal(payload, descriptor); err != nil {
		return nil, err
	}

	if descriptor.ID == "" && len(descriptor.Routes) == 0 && len(descriptor.MenuItems) == 0 {
		return nil, errors.ErrNoExtension
	}
	return []*extension.Descriptor{descriptor}, nil
}

// Encode serializes descriptors into a YAML manifest.
func Encode(descriptors ...*extension.Descriptor) ([]byte, error) {
	if len(descriptors) == 1 {
		return yaml.Marshal(descriptors[0])
	}
	return yaml.Marshal(&Manifest{Extensions: descriptors})
}

// Decoder decodes manifests and registers their descriptors.
//
// A Decoder remembers the digest of every payload it registered and skips a
// payload it has already executed, whatever location it comes from.
type Decoder struct {
	mu      sync.Mutex
	digests mapset.Set[uint64]
}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{digests: mapset.NewThreadUnsafeSet[uint64]()}
}

// Seen reports whether payload was already executed.
func (d *Decoder) Seen(payload []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.digests.Contains(xxh3.Hash(payload))
}

// Register decodes the manifest found at location and registers every
// descriptor it holds. It reports whether the payload was skipped because it
// was already executed. Registration errors are aggregated.
func (d *Decoder) Register(registrar Registrar, location string, payload []byte) (bool, error) {
	digest := xxh3.Hash(payload)

	d.mu.Lock()
	if d.digests.Contains(digest) {
		d.mu.Unlock()
		return true, nil
	}
	d.digests.Add(digest)
	d.mu.Unlock()

	descriptors, err := Decode(payload)
	if err != nil {
		d.forget(digest)
		return false, errors.NewErrInvalidManifest(location, err)
	}

	return false, RegisterAll(registrar, descriptors...)
}

// Reset forgets every executed payload.
func (d *Decoder) Reset() {
	d.mu.Lock()
	d.digests.Clear()
	d.mu.Unlock()
}

func (d *Decoder) forget(digest uint64) {
	d.mu.Lock()
	d.digests.Remove(digest)
	d.mu.Unlock()
}

// RegisterAll registers every descriptor and aggregates the failures.
func RegisterAll(registrar Registrar, descriptors ...*extension.Descriptor) error {
	var err error
	for _, descriptor := range descriptors {
		err = multierr.Append(err, registrar.Register(descriptor))
	}
	return err
}
