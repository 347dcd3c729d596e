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

// Package kubernetes reads extension manifests from ConfigMaps.
//
// Every data and binaryData key of a selected ConfigMap holds one manifest;
// binaryData is meant for compressed manifests (.br, .zst). ConfigMaps are
// registered by name, their keys in lexical order.
package kubernetes

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"go.uber.org/multierr"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/log"
)

// Source reads manifests from labelled ConfigMaps.
type Source struct {
	mu     sync.Mutex
	config *Config
	client kubernetes.Interface
	logger log.Logger
}

// enforce compilation error
var _ bundle.Source = (*Source)(nil)

// NewSource creates an instance of Source
func NewSource(config *Config, opts ...Option) *Source {
	source := &Source{
		config: config,
		logger: log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(source)
	}
	return source
}

// ID returns the source identifier
func (s *Source) ID() string {
	return fmt.Sprintf("kubernetes:%s/%s", s.config.Namespace, labels.SelectorFromSet(s.config.selector()).String())
}

// FetchAndRegister lists the selected ConfigMaps and registers their manifests.
func (s *Source) FetchAndRegister(ctx context.Context, registrar bundle.Registrar) error {
	if err := s.config.Validate(); err != nil {
		return multierr.Append(errors.ErrInvalidConfig, err)
	}

	client, err := s.kubeClient()
	if err != nil {
		return err
	}

	configMaps, err := client.CoreV1().ConfigMaps(s.config.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labels.SelectorFromSet(s.config.selector()).String(),
	})
	if err != nil {
		return fmt.Errorf("failed to list configmaps: %w", err)
	}

	items := configMaps.Items
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	var entries []bundle.Entry
	for _, configMap := range items {
		entries = append(entries, manifests(&configMap)...)
	}

	s.logger.Debugf("source=(%s) found %d manifests in %d configmaps", s.ID(), len(entries), len(items))
	return bundle.NewDecoder().RegisterEntries(registrar, s.logger, entries...)
}

func (s *Source) kubeClient() (kubernetes.Interface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	config, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get the in-cluster config: %w", err)
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create the kubernetes client: %w", err)
	}
	s.client = client
	return client, nil
}

func manifests(configMap *corev1.ConfigMap) []bundle.Entry {
	keys := make([]string, 0, len(configMap.Data)+len(configMap.BinaryData))
	for key := range configMap.Data {
		keys = append(keys, key)
	}
	for key := range configMap.BinaryData {
		if _, ok := configMap.Data[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	entries := make([]bundle.Entry, 0, len(keys))
	for _, key := range keys {
		payload, ok := configMap.BinaryData[key]
		if !ok {
			payload = []byte(configMap.Data[key])
		}
		entries = append(entries, bundle.Entry{
			Location: path.Join(configMap.Namespace, configMap.Name, key),
			Payload:  payload,
		})
	}
	return entries
}
