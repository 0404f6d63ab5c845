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

package shortcut

import (
    `io`

    `github.com/cloudwego/shortcut/internal/opts`
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithWriter sets the destination for textual reports and debug dumps.
//
// The default destination is os.Stderr.
func WithWriter(w io.Writer) Option {
    if w == nil {
        panic("shortcut: writer must not be nil")
    } else {
        return func(o *opts.Options) { o.Writer = w }
    }
}

// WithDebug also dumps every function's node arena after its report,
// for troubleshooting unexpected analysis results.
//
// The default value of this option is "false", or the value of the
// SHORTCUT_DEBUG environment variable if set.
func WithDebug(v bool) Option {
    return func(o *opts.Options) { o.Debug = v }
}
