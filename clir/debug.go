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

package clir

import (
    `os`

    `github.com/davecgh/go-spew/spew`
)

var _debugconf = spew.ConfigState {
    Indent                  : "    ",
    DisableMethods          : false,
    DisablePointerAddresses : true,
    DisableCapacities       : true,
    SortKeys                : true,
}

// DebugDump reports whether tree dumps were requested for this process.
var DebugDump = os.Getenv("SIFT_DEBUG_DUMP") != ""

// Dump renders an expression tree with full structural detail for
// diagnostics.
func Dump(e Expr) string {
    return _debugconf.Sdump(e)
}

// Dumpf writes a labeled tree dump to stderr when dumps are enabled.
func Dumpf(label string, e Expr) {
    if DebugDump {
        os.Stderr.WriteString("=== " + label + " ===\n" + e.String() + "\n")
    }
}
