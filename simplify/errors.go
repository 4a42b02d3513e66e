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
    `fmt`

    `github.com/karstlang/sift/clir`
)

// Internal-consistency and shape violations indicate a bug in the pass or
// in its producer, never a recoverable condition. They abort immediately
// with enough context to locate the offending node.

func fatalf(format string, args ...interface{}) {
    panic("sift: " + fmt.Sprintf(format, args...))
}

func fatalAt(e clir.Expr, format string, args ...interface{}) {
    panic("sift: " + fmt.Sprintf(format, args...) + "\nin expression:\n" + clir.Dump(e))
}
