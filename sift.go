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

// Package sift simplifies closure-IR compilation units: constant folding,
// dead code elimination, function inlining and recursive-call
// specialization, performed in a single traversal.
package sift

import (
    `github.com/karstlang/sift/clir`
    `github.com/karstlang/sift/ident`
    `github.com/karstlang/sift/simplify`
)

// SimplifyUnit rewrites the body of one compilation unit. The result
// computes the same value and performs the same effects in the same order
// as e; only the cost of getting there changes.
func SimplifyUnit(e clir.Expr, options ...Option) clir.Expr {
    cfg := newConfig(options)
    return simplify.New(cfg.src, cfg.imp, cfg.opt).Unit(e)
}

// Simplify is SimplifyUnit with a fresh identifier source named after the
// unit being compiled.
func Simplify(unit clir.Unit, e clir.Expr, options ...Option) clir.Expr {
    return SimplifyUnit(e, append([]Option { WithSource(ident.NewSource(unit)) }, options...)...)
}
