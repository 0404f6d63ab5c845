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
    `fmt`

    `github.com/cloudwego/shortcut/cfg`
)

// InvariantError reports a broken structural invariant during chain
// construction: a node whose both subtrees claim the shortcut, or a
// member walk that runs off a severed back-link. These indicate a bug
// in the analysis or an inconsistent CFG, so the whole run is aborted.
type InvariantError struct {
    Func   string
    Block  *cfg.BasicBlock
    Reason string
}

func (self InvariantError) Error() string {
    if self.Block == nil {
        return fmt.Sprintf("chain: invariant violated in %s: %s", self.Func, self.Reason)
    }
    return fmt.Sprintf("chain: invariant violated in %s at %s: %s", self.Func, self.Block, self.Reason)
}
