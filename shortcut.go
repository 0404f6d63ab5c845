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

// Package shortcut detects shortcut branches in control flow graphs:
// conditional branches that together form the lowered shape of a chained
// boolean short-circuit expression. It reports each verified chain as a
// tree plus running totals, and never modifies the analyzed functions.
package shortcut

import (
    `io`

    `github.com/cloudwego/shortcut/cfg`
    `github.com/cloudwego/shortcut/chain`
    `github.com/cloudwego/shortcut/internal/opts`
)

// Stats accumulates analysis totals across functions.
type Stats struct {
    Shortcuts    uint64
    ShortcutSets uint64
    FailedVerify uint64
}

// Add merges v into self. Reports of independently analyzed functions
// can be combined this way.
func (self *Stats) Add(v Stats) {
    self.Shortcuts += v.Shortcuts
    self.ShortcutSets += v.ShortcutSets
    self.FailedVerify += v.FailedVerify
}

// FuncReport is the outcome of analyzing a single function.
type FuncReport struct {
    Name   string
    Text   string
    Stats  Stats
    Chains *chain.Result
}

// Report is the outcome of analyzing a whole program.
type Report struct {
    Funcs []FuncReport
    Stats Stats
}

// AnalyzeFunc runs the detector over a single function, writes its
// textual report, and returns the report. The function's CFG is never
// modified.
func AnalyzeFunc(fn *cfg.Function, options ...Option) (*FuncReport, error) {
    o := opts.Defaults()
    for _, setter := range options {
        setter(&o)
    }
    return analyzeFunc(fn, &o)
}

// Analyze runs the detector over every function of p, strictly in order,
// and accumulates the totals. An invariant violation in any function
// aborts the whole run: partial results after a broken chain walk are
// not to be trusted.
func Analyze(p *cfg.Program, options ...Option) (*Report, error) {
    o := opts.Defaults()
    for _, setter := range options {
        setter(&o)
    }

    ret := new(Report)
    for _, fn := range p.Funcs {
        r, err := analyzeFunc(fn, &o)
        if err != nil {
            return nil, err
        }
        ret.Funcs = append(ret.Funcs, *r)
        ret.Stats.Add(r.Stats)
    }
    return ret, nil
}

func analyzeFunc(fn *cfg.Function, o *opts.Options) (*FuncReport, error) {
    dt := cfg.BuildDominatorTree(fn.Entry())
    res, err := chain.Analyze(fn, dt)

    /* the analysis is a pure observer, the only hard failures are
     * invariant violations */
    if err != nil {
        return nil, err
    }

    ret := &FuncReport {
        Name   : fn.Name,
        Text   : res.Dump(),
        Chains : res,
        Stats  : Stats {
            Shortcuts    : uint64(res.Shortcuts),
            ShortcutSets : uint64(res.Sets),
            FailedVerify : uint64(res.Failed),
        },
    }

    if _, err := io.WriteString(o.Writer, ret.Text); err != nil {
        return nil, err
    }
    if o.Debug {
        res.DebugDump(o.Writer)
    }
    return ret, nil
}
