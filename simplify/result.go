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

package simplify

import (
    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`

    mapset `github.com/deckarep/golang-set`
)

// Result is the bottom-up state threaded through the traversal: the
// approximation of the expression just rewritten, the whole-unit global
// approximations, and the liveness sets of variables and static labels the
// rewritten code still references. Results are threaded linearly: each
// value feeds exactly one continuation.
//
// The liveness sets must drain completely by the time the unit entry point
// returns; a leftover entry means some binder was not matched by a scope
// exit, which is a bug in the pass.
type Result struct {
    value   approx.Value
    globals map[int]approx.Value
    used    mapset.Set
    labels  mapset.Set
}

func newResult() Result {
    return Result {
        value   : approx.Top(),
        globals : map[int]approx.Value{},
        used    : mapset.NewSet(),
        labels  : mapset.NewSet(),
    }
}

// fresh is a scratch result: empty liveness, shared global table. Scratch
// results let a caller measure what one sub-tree references and then decide
// whether to merge or discard those facts with the sub-tree itself.
func (self Result) fresh() Result {
    return Result {
        value   : approx.Top(),
        globals : self.globals,
        used    : mapset.NewSet(),
        labels  : mapset.NewSet(),
    }
}

// merge folds another result's liveness into this one.
func (self Result) merge(o Result) Result {
    self.used = self.used.Union(o.used)
    self.labels = self.labels.Union(o.labels)
    return self
}

// ret records the approximation of the rewritten expression.
func (self Result) ret(v approx.Value) Result {
    self.value = v
    return self
}

// Value is the approximation recorded by the latest ret.
func (self Result) Value() approx.Value {
    return self.value
}

func (self Result) use(id clir.Var) Result {
    self.used.Add(id)
    return self
}

func (self Result) isUsed(id clir.Var) bool {
    return self.used.Contains(id)
}

// exitScope closes a binder's scope: the variable must not remain visible
// in the liveness set once its binder is gone.
func (self Result) exitScope(ids ...clir.Var) Result {
    for _, id := range ids {
        self.used.Remove(id)
    }
    return self
}

func (self Result) useLabel(l clir.Label) Result {
    self.labels.Add(l)
    return self
}

func (self Result) labelUsed(l clir.Label) bool {
    return self.labels.Contains(l)
}

func (self Result) exitLabel(l clir.Label) Result {
    self.labels.Remove(l)
    return self
}

func (self Result) setGlobal(i int, v approx.Value) Result {
    self.globals[i] = v
    return self
}

func (self Result) global(i int) approx.Value {
    if v, ok := self.globals[i]; ok {
        return v
    }
    return approx.Top()
}

// drained reports whether both liveness sets are empty.
func (self Result) drained() bool {
    return self.used.Cardinality() == 0 && self.labels.Cardinality() == 0
}
