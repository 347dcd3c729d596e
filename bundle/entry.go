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
	"path"
	"strings"

	"go.uber.org/multierr"

	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Entry is a manifest read from a store.
type Entry struct {
	// Location is the file name, URL or key the payload was read from
	Location string
	// Encoding is the payload content encoding. When empty it is derived from
	// the Location suffix (".br", ".zst").
	Encoding string
	Payload  []byte
}

// IsManifest reports whether name looks like a manifest: a .yaml, .yml or
// .json file, optionally followed by a .br or .zst suffix.
func IsManifest(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	if compression.FromExtension(ext) != compression.Identity {
		name = strings.TrimSuffix(name, path.Ext(name))
		ext = strings.ToLower(path.Ext(name))
	}

	switch ext {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

// RegisterEntries decompresses and registers every entry in order.
// A failing entry does not stop the next ones; failures are aggregated.
func (d *Decoder) RegisterEntries(registrar Registrar, logger log.Logger, entries ...Entry) error {
	var err error
	for _, entry := range entries {
		encoding := entry.Encoding
		if encoding == "" {
			encoding = compression.FromExtension(path.Ext(entry.Location))
		}

		payload, decErr := compression.Decode(encoding, entry.Payload)
		if decErr != nil {
			err = multierr.Append(err, errors.NewErrInvalidManifest(entry.Location, decErr))
			continue
		}

		skipped, regErr := d.Register(registrar, entry.Location, payload)
		if skipped {
			logger.Debugf("manifest=(%s) already executed, skipped", entry.Location)
			continue
		}
		err = multierr.Append(err, regErr)
	}
	return err
}
