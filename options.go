/*
 * Copyright 2023 Sift Authors
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

package sift

import (
    `fmt`

    `github.com/karstlang/sift/ident`
    `github.com/karstlang/sift/imports`
    `github.com/karstlang/sift/internal/opts`
)

// Option is the property setter function for one simplification run.
type Option func(*_Config)

type _Config struct {
    opt opts.Options
    imp imports.Importer
    src *ident.Source
}

func newConfig(options []Option) *_Config {
    cfg := &_Config { opt: opts.GetDefaultOptions() }
    for _, fn := range options {
        fn(cfg)
    }
    if cfg.src == nil {
        cfg.src = ident.NewSource("")
    }
    return cfg
}

// WithInlineThreshold sets the inlining budget of the run.
//
// Increasing this option makes the pass inline more aggressively, which
// gives faster generated code at the cost of larger output and a longer
// compilation, and vice versa.
//
// This value can also be configured with the `SIFT_INLINE_THRESHOLD`
// environment variable. The default value of this option is "256".
func WithInlineThreshold(size int) Option {
    if size <= 0 {
        panic(fmt.Sprintf("sift: invalid inline threshold: %d", size))
    } else {
        return func(cfg *_Config) { cfg.opt.InlineThreshold = size }
    }
}

// WithMaxInlineDepth sets the maximum nesting of inlining and
// specialization decisions.
//
// Set this option to "0" to disable the limit, which means inlining
// everything the budget allows.
//
// This value can also be configured with the `SIFT_MAX_INLINE_DEPTH`
// environment variable. The default value of this option is "8".
func WithMaxInlineDepth(depth int) Option {
    if depth < 0 {
        panic(fmt.Sprintf("sift: invalid inline depth: %d", depth))
    } else {
        return func(cfg *_Config) { cfg.opt.MaxInlineDepth = depth }
    }
}

// WithImporter sets the resolver for cross-unit symbols and globals. When
// unset nothing resolves and every import stays opaque.
func WithImporter(imp imports.Importer) Option {
    return func(cfg *_Config) { cfg.imp = imp }
}

// WithSource sets the identifier source used for every fresh variable and
// label minted during simplification. Reuse one source across the units of
// a program so stamps never collide.
func WithSource(src *ident.Source) Option {
    return func(cfg *_Config) { cfg.src = src }
}
