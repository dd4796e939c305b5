/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"reflect"
	"time"

	"github.com/caiflower/staticweb/pkg/tools"
)

type Option func(*Options) *Options

type Options struct {
	Name         string            `yaml:"name" json:"name" default:"staticweb"`
	Addr         string            `yaml:"addr" json:"addr" default:"127.0.0.1:3000"`
	DocumentRoot string            `yaml:"documentRoot" json:"documentRoot" default:"."`
	Redirects    map[string]string `yaml:"redirects" json:"redirects"`
	// a negative value disables the read deadline
	ReadTimeout     time.Duration `yaml:"readTimeout" json:"readTimeout" default:"10s"`
	MaxRequestBytes int           `yaml:"maxRequestBytes" json:"maxRequestBytes" default:"8192"`
	// accepted connections per second, 0 means unlimited
	Qps                 int           `yaml:"qps" json:"qps"`
	Burst               int           `yaml:"burst" json:"burst"`
	MarkdownCacheExpire time.Duration `yaml:"markdownCacheExpire" json:"markdownCacheExpire" default:"5m"`
	MetricsAddr         string        `yaml:"metricsAddr" json:"metricsAddr"`
}

func NewOptions(opts []Option) *Options {
	options := &Options{}
	_ = options.SetDefaults()

	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

// SetDefaults fills every zero field that carries a default tag.
func (o *Options) SetDefaults() error {
	return tools.DoTagFunc(o, []func(reflect.StructField, reflect.Value) error{tools.SetDefaultValueIfNil})
}

func WithName(name string) Option {
	return func(opts *Options) *Options {
		opts.Name = name
		return opts
	}
}

func WithAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.Addr = addr
		return opts
	}
}

func WithDocumentRoot(root string) Option {
	return func(opts *Options) *Options {
		opts.DocumentRoot = root
		return opts
	}
}

func WithRedirect(from, to string) Option {
	return func(opts *Options) *Options {
		if opts.Redirects == nil {
			opts.Redirects = make(map[string]string)
		}
		opts.Redirects[from] = to
		return opts
	}
}

func WithReadTimeout(readTimeout time.Duration) Option {
	return func(opts *Options) *Options {
		opts.ReadTimeout = readTimeout
		return opts
	}
}

func WithMaxRequestBytes(n int) Option {
	return func(opts *Options) *Options {
		opts.MaxRequestBytes = n
		return opts
	}
}

func WithQps(qps, burst int) Option {
	return func(opts *Options) *Options {
		opts.Qps = qps
		opts.Burst = burst
		return opts
	}
}

func WithMarkdownCacheExpire(expire time.Duration) Option {
	return func(opts *Options) *Options {
		opts.MarkdownCacheExpire = expire
		return opts
	}
}

func WithMetricsAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.MetricsAddr = addr
		return opts
	}
}
