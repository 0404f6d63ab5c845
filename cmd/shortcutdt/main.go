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

// Command shortcutdt analyzes YAML program files and reports every
// shortcut branch chain it finds.
package main

import (
    `fmt`
    `io`
    `os`

    `github.com/VictoriaMetrics/metrics`
    `github.com/spf13/cobra`

    `github.com/cloudwego/shortcut`
    `github.com/cloudwego/shortcut/cfg`
    `github.com/cloudwego/shortcut/internal/loader`
)

var version = "0.1.0"

var (
    funcName    string
    debugArena  bool
    dumpDot     bool
    showStats   bool
    showMetrics bool
)

/* run counters, exposed with --metrics */
var (
    branchCount = metrics.NewCounter(`shortcut_branches_total`)
    setCount    = metrics.NewCounter(`shortcut_branch_sets_total`)
    failCount   = metrics.NewCounter(`shortcut_failed_verify_total`)
)

func main() {
    os.Exit(run())
}

func run() int {
    cmd := newRootCmd(os.Stdout, os.Stderr)
    cmd.SetArgs(os.Args[1:])
    if err := cmd.Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "shortcutdt: %v\n", err)
        return 1
    }
    return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
    rootCmd := &cobra.Command {
        Use:   "shortcutdt [flags] <program.yaml>...",
        Short: "shortcutdt detects shortcut branches in control flow graphs",
        Long: `shortcutdt loads YAML program files and reports, per function, every
chained boolean short-circuit lowered into conditional branches, as a
tree of chain nodes plus running totals.`,
        Version:       version,
        Args:          cobra.MinimumNArgs(1),
        SilenceUsage:  true,
        SilenceErrors: true,
        RunE: func(cmd *cobra.Command, args []string) error {
            return analyze(args, out, errOut)
        },
    }
    rootCmd.SetOut(out)
    rootCmd.SetErr(errOut)
    rootCmd.Flags().StringVar(&funcName, "func", "", "Analyze only functions with this name")
    rootCmd.Flags().BoolVar(&debugArena, "debug", false, "Dump the node arena after each function's report")
    rootCmd.Flags().BoolVar(&dumpDot, "dot", false, "Emit a Graphviz digraph of each function's verified chains")
    rootCmd.Flags().BoolVar(&showStats, "stats", false, "Print detection totals after all files")
    rootCmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the run's counters in Prometheus text format")
    return rootCmd
}

func analyze(paths []string, out, errOut io.Writer) error {
    var total shortcut.Stats
    for _, path := range paths {
        p, err := loader.Load(path)
        if err != nil {
            return err
        }
        rep, err := shortcut.Analyze(selectFuncs(p), shortcut.WithWriter(out), shortcut.WithDebug(debugArena))
        if err != nil {
            return err
        }
        total.Add(rep.Stats)
        if dumpDot {
            if err := writeDot(rep, out); err != nil {
                return err
            }
        }
    }

    branchCount.Add(int(total.Shortcuts))
    setCount.Add(int(total.ShortcutSets))
    failCount.Add(int(total.FailedVerify))

    if showStats {
        fmt.Fprintf(errOut, "Number of shortcut branches detected: %d\n", total.Shortcuts)
        fmt.Fprintf(errOut, "Number of shortcut branch sets detected: %d\n", total.ShortcutSets)
    }
    if showMetrics {
        metrics.WritePrometheus(errOut, false)
    }
    return nil
}

func selectFuncs(p *cfg.Program) *cfg.Program {
    if funcName == "" {
        return p
    }
    ret := new(cfg.Program)
    for _, fn := range p.Funcs {
        if fn.Name == funcName {
            ret.Funcs = append(ret.Funcs, fn)
        }
    }
    return ret
}

func writeDot(rep *shortcut.Report, out io.Writer) error {
    for i := range rep.Funcs {
        buf, err := rep.Funcs[i].Chains.Dot()
        if err != nil {
            return err
        }
        if _, err := out.Write(append(buf, '\n')); err != nil {
            return err
        }
    }
    return nil
}
