/*
 * Copyright 2022 ByteDance Inc.
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

package chain

import (
    `io`

    `github.com/davecgh/go-spew/spew`
)

// DebugDump writes a deep dump of the node arena, for troubleshooting
// chain construction on CFGs where the report alone is not enough.
func (self *Result) DebugDump(w io.Writer) {
    spew.Config.SortKeys = true
    spew.Fdump(w, self.Arena.Nodes)
}
