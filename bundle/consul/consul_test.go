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

package consul

import (
	"context"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/consul"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/registry"
)

func TestSource(t *testing.T) {
	t.Run("With defaults and ID", func(t *testing.T) {
		source := NewSource(&Config{Prefix: "/console/extensions"})
		assert.Equal(t, "consul:127.0.0.1:8500/console/extensions", source.ID())
	})
	t.Run("With an invalid config", func(t *testing.T) {
		source := NewSource(&Config{}, WithLogger(log.DiscardLogger))
		err := source.FetchAndRegister(context.TODO(), registry.New(registry.WithLogger(log.DiscardLogger)))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
	t.Run("With manifests under the prefix", func(t *testing.T) {
		ctx := t.Context()
		agent := startConsulAgent(t)

		endpoint, err := agent.ApiEndpoint(ctx)
		require.NoError(t, err)

		consulConfig := api.DefaultConfig()
		consulConfig.Address = endpoint
		client, err := api.NewClient(consulConfig)
		require.NoError(t, err)

		compressed, err := compression.Encode(compression.Brotli, []byte("id: redis"))
		require.NoError(t, err)

		for key, value := range map[string][]byte{
			"console/extensions/":                nil,
			"console/extensions/a-mysql.yaml":    []byte("id: mysql\nmenuItems:\n  - key: mysql\n"),
			"console/extensions/b-redis.yaml.br": compressed,
			"console/other/c-kafka.yaml":         []byte("id: kafka"),
		} {
			_, err := client.KV().Put(&api.KVPair{Key: key, Value: value}, nil)
			require.NoError(t, err)
		}

		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		source := NewSource(&Config{Address: endpoint, Prefix: "console/extensions/"}, WithLogger(log.DiscardLogger))
		require.NoError(t, source.FetchAndRegister(ctx, reg))

		var ids []string
		for _, descriptor := range reg.Extensions() {
			ids = append(ids, descriptor.ID)
		}
		assert.Equal(t, []string{"mysql", "redis"}, ids)
	})
}

func startConsulAgent(t *testing.T) *consul.ConsulContainer {
	t.Helper()
	consulContainer, err := consul.Run(t.Context(), "hashicorp/consul:1.15")
	require.NoError(t, err)
	t.Cleanup(func() {
		err := consulContainer.Terminate(context.Background())
		require.NoError(t, err)
	})
	return consulContainer
}
