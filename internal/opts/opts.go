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

package opts

import (
    `io`
    `os`
    `strconv`
)

// Options controls how analysis results are reported.
type Options struct {
    Writer io.Writer
    Debug  bool
}

// Defaults returns the baseline options: reports go to stderr, debug
// dumps are off unless SHORTCUT_DEBUG says otherwise.
func Defaults() Options {
    return Options {
        Writer : os.Stderr,
        Debug  : parseOrDefault("SHORTCUT_DEBUG", false),
    }
}

func parseOrDefault(key string, def bool) bool {
    if env := os.Getenv(key); env == "" {
        return def
    } else if val, err := strconv.ParseBool(env); err != nil {
        panic("shortcut: invalid value for " + key)
    } else {
        return val
    }
}
