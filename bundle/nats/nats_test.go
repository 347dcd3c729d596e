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

package nats

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/registry"
)

func startNatsServer(t *testing.T) *natsserver.Server {
	t.Helper()

	serv, err := natsserver.NewServer(&natsserver.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	ready := make(chan bool)
	go func() {
		ready <- true
		serv.Start()
	}()
	<-ready

	if !serv.ReadyForConnections(2 * time.Second) {
		t.Fatalf("nats-io server failed to start")
	}

	return serv
}

func createBucket(t *testing.T, serverURL, bucket string, entries map[string][]byte) {
	t.Helper()
	ctx := context.TODO()

	connection, err := nats.Connect(serverURL)
	require.NoError(t, err)
	defer connection.Close()

	js, err := jetstream.New(connection)
	require.NoError(t, err)

	kv, err := js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	require.NoError(t, err)

	for key, value := range entries {
		_, err := kv.Put(ctx, key, value)
		require.NoError(t, err)
	}
}

func TestSource(t *testing.T) {
	t.Run("With ID", func(t *testing.T) {
		source := NewSource(&Config{NatsServer: "nats://127.0.0.1:4222", Bucket: "extensions"})
		assert.Equal(t, "nats:nats://127.0.0.1:4222/extensions", source.ID())
	})
	t.Run("With manifests in the bucket", func(t *testing.T) {
		srv := startNatsServer(t)
		t.Cleanup(srv.Shutdown)

		compressed, err := compression.Encode(compression.Zstd, []byte("id: redis"))
		require.NoError(t, err)

		createBucket(t, srv.ClientURL(), "extensions", map[string][]byte{
			"a-mysql.yaml":     []byte("id: mysql\nmenuItems:\n  - key: mysql\n"),
			"b-redis.yaml.zst": compressed,
			"c-broken.yaml":    []byte("id: [broken"),
		})

		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		source := NewSource(&Config{
			NatsServer: srv.ClientURL(),
			Bucket:     "extensions",
		}, WithLogger(log.DiscardLogger))

		err = source.FetchAndRegister(context.TODO(), reg)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidManifest)

		var ids []string
		for _, descriptor := range reg.Extensions() {
			ids = append(ids, descriptor.ID)
		}
		assert.Equal(t, []string{"mysql", "redis"}, ids)
	})
	t.Run("With an empty bucket", func(t *testing.T) {
		srv := startNatsServer(t)
		t.Cleanup(srv.Shutdown)

		createBucket(t, srv.ClientURL(), "empty", nil)

		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		source := NewSource(&Config{NatsServer: srv.ClientURL(), Bucket: "empty"}, WithLogger(log.DiscardLogger))
		require.NoError(t, source.FetchAndRegister(context.TODO(), reg))
		assert.Zero(t, reg.Len())
	})
	t.Run("With a missing bucket", func(t *testing.T) {
		srv := startNatsServer(t)
		t.Cleanup(srv.Shutdown)

		source := NewSource(&Config{NatsServer: srv.ClientURL(), Bucket: "missing"}, WithLogger(log.DiscardLogger))
		err := source.FetchAndRegister(context.TODO(), registry.New(registry.WithLogger(log.DiscardLogger)))
		require.ErrorIs(t, err, jetstream.ErrBucketNotFound)
	})
	t.Run("With an unreachable server", func(t *testing.T) {
		source := NewSource(&Config{
			NatsServer: "nats://127.0.0.1:1",
			Bucket:     "extensions",
			Timeout:    100 * time.Millisecond,
			MaxRetries: 2,
		}, WithLogger(log.DiscardLogger))
		err := source.FetchAndRegister(context.TODO(), registry.New(registry.WithLogger(log.DiscardLogger)))
		require.Error(t, err)
	})
	t.Run("With an invalid config", func(t *testing.T) {
		source := NewSource(&Config{NatsServer: "nats://127.0.0.1:4222"}, WithLogger(log.DiscardLogger))
		err := source.FetchAndRegister(context.TODO(), registry.New(registry.WithLogger(log.DiscardLogger)))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
}
