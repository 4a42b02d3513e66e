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

// Package imports resolves global symbols and whole-unit globals to their
// statically known approximations. Resolution is total: an unresolved name
// degrades to the Unknown approximation, it never fails.
package imports

import (
    `github.com/karstlang/sift/approx`
    `github.com/karstlang/sift/clir`

    lru `github.com/hashicorp/golang-lru`
)

// Importer answers cross-module approximation queries.
type Importer interface {
    ImportSymbol(sym clir.Symbol) approx.Value
    ImportGlobal(unit clir.Unit) approx.Value
}

// Unresolved is an Importer that knows nothing.
type Unresolved struct{}

func (Unresolved) ImportSymbol(_ clir.Symbol) approx.Value { return approx.Top() }
func (Unresolved) ImportGlobal(_ clir.Unit)   approx.Value { return approx.Top() }

// LookupFunc resolves one symbol, reporting whether it is known.
type LookupFunc func(sym clir.Symbol) (approx.Value, bool)

// GlobalFunc resolves one unit's global block, reporting whether it is
// known.
type GlobalFunc func(unit clir.Unit) (approx.Value, bool)

const (
    _CacheSize = 4096
)

// Resolver is the default Importer: user-supplied lookup functions behind
// an LRU memoization cache.
type Resolver struct {
    syms    LookupFunc
    units   GlobalFunc
    symtab  *lru.Cache
    unittab *lru.Cache
}

// NewResolver builds a Resolver over the given lookups; either may be nil.
func NewResolver(syms LookupFunc, units GlobalFunc) *Resolver {
    st, _ := lru.New(_CacheSize)
    ut, _ := lru.New(_CacheSize)
    return &Resolver {
        syms    : syms,
        units   : units,
        symtab  : st,
        unittab : ut,
    }
}

func (self *Resolver) ImportSymbol(sym clir.Symbol) approx.Value {
    if v, ok := self.symtab.Get(sym); ok {
        return v.(approx.Value)
    }

    ret := approx.Top()
    if self.syms != nil {
        if v, ok := self.syms(sym); ok {
            ret = v
        }
    }

    self.symtab.Add(sym, ret)
    return ret
}

func (self *Resolver) ImportGlobal(unit clir.Unit) approx.Value {
    if v, ok := self.unittab.Get(unit); ok {
        return v.(approx.Value)
    }

    ret := approx.Top()
    if self.units != nil {
        if v, ok := self.units(unit); ok {
            ret = v
        }
    }

    self.unittab.Add(unit, ret)
    return ret
}
