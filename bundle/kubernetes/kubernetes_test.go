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

package kubernetes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	testclient "k8s.io/client-go/kubernetes/fake"

	gerrors "github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/registry"
)

func TestSource(t *testing.T) {
	t.Run("With ID", func(t *testing.T) {
		source := NewSource(&Config{Namespace: "console"})
		assert.Equal(t, "kubernetes:console/console.io/extension=true", source.ID())
	})
	t.Run("With an invalid config", func(t *testing.T) {
		source := NewSource(&Config{}, WithLogger(log.DiscardLogger), WithClient(testclient.NewClientset()))
		err := source.FetchAndRegister(context.TODO(), registry.New(registry.WithLogger(log.DiscardLogger)))
		require.ErrorIs(t, err, gerrors.ErrInvalidConfig)
	})
	t.Run("With labelled configmaps", func(t *testing.T) {
		compressed, err := compression.Encode(compression.Zstd, []byte("id: redis"))
		require.NoError(t, err)

		client := testclient.NewClientset(
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "b-stores",
					Namespace: "console",
					Labels:    map[string]string{DefaultLabel: "true"},
				},
				Data:       map[string]string{"mysql.yaml": "id: mysql"},
				BinaryData: map[string][]byte{"redis.yaml.zst": compressed},
			},
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "a-queues",
					Namespace: "console",
					Labels:    map[string]string{DefaultLabel: "true"},
				},
				Data: map[string]string{"kafka.yaml": "id: kafka"},
			},
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "unlabelled",
					Namespace: "console",
				},
				Data: map[string]string{"pg.yaml": "id: pg"},
			},
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "other-namespace",
					Namespace: "default",
					Labels:    map[string]string{DefaultLabel: "true"},
				},
				Data: map[string]string{"mongo.yaml": "id: mongo"},
			},
		)

		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		source := NewSource(&Config{Namespace: "console"}, WithLogger(log.DiscardLogger), WithClient(client))
		require.NoError(t, source.FetchAndRegister(context.TODO(), reg))

		var ids []string
		for _, descriptor := range reg.Extensions() {
			ids = append(ids, descriptor.ID)
		}
		assert.Equal(t, []string{"kafka", "mysql", "redis"}, ids)
	})
	t.Run("With a custom selector", func(t *testing.T) {
		client := testclient.NewClientset(
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "team-a",
					Namespace: "console",
					Labels:    map[string]string{"team": "a"},
				},
				Data: map[string]string{"a.yaml": "id: a"},
			},
			&corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "team-b",
					Namespace: "console",
					Labels:    map[string]string{"team": "b"},
				},
				Data: map[string]string{"b.yaml": "id: b"},
			},
		)

		reg := registry.New(registry.WithLogger(log.DiscardLogger))
		source := NewSource(&Config{Namespace: "console", Labels: map[string]string{"team": "a"}},
			WithLogger(log.DiscardLogger), WithClient(client))
		require.NoError(t, source.FetchAndRegister(context.TODO(), reg))
		assert.Equal(t, 1, reg.Len())
		_, ok := reg.Extension("a")
		assert.True(t, ok)
	})
}
