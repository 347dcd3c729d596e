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

// Package config holds the configuration of the console extension service.
//
// A configuration is read from a YAML or JSON file:
//
//	listenAddr: ":8080"
//	logLevel: info
//	settleDelay: 100ms
//	builtinMenu: /etc/console/menu.yaml
//	sources:
//	  - type: file
//	    dir: /etc/console/extensions
//	  - type: http
//	    urls: ["https://cdn.example.com/extensions.yaml.br"]
package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/internal/validation"
)

// Bundle source types.
const (
	TypeStatic     = "static"
	TypeFile       = "file"
	TypeHTTP       = "http"
	TypeNATS       = "nats"
	TypeConsul     = "consul"
	TypeEtcd       = "etcd"
	TypeRedis      = "redis"
	TypeKubernetes = "kubernetes"
	TypeBolt       = "bolt"
)

// SourceTypes lists every supported bundle source type.
var SourceTypes = []string{
	TypeStatic,
	TypeFile,
	TypeHTTP,
	TypeNATS,
	TypeConsul,
	TypeEtcd,
	TypeRedis,
	TypeKubernetes,
	TypeBolt,
}

const (
	// DefaultListenAddr is the address the HTTP API binds to
	DefaultListenAddr = ":8080"
	// DefaultLogLevel is the default log level
	DefaultLogLevel = "info"
	// DefaultSettleDelay is the pause between the last fetch and the completion of a load cycle
	DefaultSettleDelay = 100 * time.Millisecond
)

// Config represents the console extension service configuration
type Config struct {
	// ListenAddr is the address of the HTTP API, e.g. ":8080"
	ListenAddr string `json:"listenAddr,omitempty"`
	// LogLevel is one of debug, info, warning, error, fatal or panic
	LogLevel string `json:"logLevel,omitempty"`
	// SettleDelay is the pause at the end of a load cycle
	SettleDelay metav1.Duration `json:"settleDelay,omitempty"`
	// FetchTimeout bounds every bundle source fetch. Zero disables it.
	FetchTimeout metav1.Duration `json:"fetchTimeout,omitempty"`
	// BuiltinMenu is the path of the built-in menu tree. Empty means no built-in menu.
	BuiltinMenu string `json:"builtinMenu,omitempty"`
	// Sources are fetched in order
	Sources []SourceConfig `json:"sources,omitempty"`
}

// SourceConfig configures a single bundle source. Only the fields of its
// type are read.
type SourceConfig struct {
	// Type is one of SourceTypes
	Type string `json:"type"`
	// ID overrides the identifier derived from the source location
	ID string `json:"id,omitempty"`

	// static
	Name        string                  `json:"name,omitempty"`
	Descriptors []*extension.Descriptor `json:"descriptors,omitempty"`

	// file
	Dir       string `json:"dir,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`

	// http
	URLs    []string          `json:"urls,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	H2C     bool              `json:"h2c,omitempty"`

	// nats, bolt
	Server string `json:"server,omitempty"`
	Bucket string `json:"bucket,omitempty"`

	// consul, etcd
	Address    string   `json:"address,omitempty"`
	Datacenter string   `json:"datacenter,omitempty"`
	Token      string   `json:"token,omitempty"`
	Endpoints  []string `json:"endpoints,omitempty"`
	Prefix     string   `json:"prefix,omitempty"`

	// etcd, redis
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// redis
	Addr string `json:"addr,omitempty"`
	DB   int    `json:"db,omitempty"`
	Key  string `json:"key,omitempty"`

	// kubernetes
	Namespace string            `json:"namespace,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`

	// bolt
	Path string `json:"path,omitempty"`

	// Timeout bounds the requests of the source
	Timeout metav1.Duration `json:"timeout,omitempty"`
	// MaxRetries is the number of connection attempts
	MaxRetries int `json:"maxRetries,omitempty"`
}

// Default returns the default configuration: no source at all.
func Default() *Config {
	return &Config{
		ListenAddr:  DefaultListenAddr,
		LogLevel:    DefaultLogLevel,
		SettleDelay: metav1.Duration{Duration: DefaultSettleDelay},
	}
}

// New creates an instance of Config from the defaults and the given options
func New(opts ...Option) *Config {
	config := Default()
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// Load reads and validates the configuration file at path. Unset fields keep
// their default values.
func Load(path string) (*Config, error) {
	bytea, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	return Parse(bytea)
}

// Parse decodes and validates a YAML or JSON configuration.
func Parse(bytea []byte) (*Config, error) {
	config := Default()
	if err := yaml.UnmarshalStrict(bytea, config); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewListenAddressValidator(c.ListenAddr)).
		AddAssertion(c.SettleDelay.Duration >= 0, "settleDelay cannot be negative").
		AddAssertion(c.FetchTimeout.Duration >= 0, "fetchTimeout cannot be negative")

	for i, source := range c.Sources {
		chain = chain.AddValidator(source.validator(i))
	}

	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}
	return nil
}

func (s SourceConfig) validator(index int) validation.Validator {
	return &sourceValidator{index: index, source: s}
}

type sourceValidator struct {
	index  int
	source SourceConfig
}

func (v *sourceValidator) Validate() error {
	if !slices.Contains(SourceTypes, v.source.Type) {
		return fmt.Errorf("sources[%d]: %w", v.index, errors.NewErrUnknownSourceType(v.source.Type))
	}
	return nil
}
