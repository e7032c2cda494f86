package rules

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kballard/go-shellquote"
)

// Port is one named input or output path of an edge.
type Port struct {
	Name string
	Path string
	// Ancient inputs only need to exist; their modification time never makes
	// an edge stale.
	Ancient bool
}

// Edge is one rule instantiated for a concrete wildcard.
type Edge struct {
	Rule     string
	Wildcard string
	Inputs   []Port
	Outputs  []Port
	Action   Action
	// Log is where the executor records the action's output. Empty means the
	// edge keeps no log.
	Log     string
	Message string
}

// ID returns the edge's unique identifier, e.g. "trim_reads_se[s1]".
func (e *Edge) ID() string {
	if e.Wildcard == "" {
		return e.Rule
	}
	return e.Rule + "[" + e.Wildcard + "]"
}

// InputPaths returns the input paths in declaration order.
func (e *Edge) InputPaths() []string {
	return portPaths(e.Inputs)
}

// OutputPaths returns the output paths in declaration order.
func (e *Edge) OutputPaths() []string {
	return portPaths(e.Outputs)
}

func portPaths(ports []Port) []string {
	out := make([]string, len(ports))
	for i, p := range ports {
		out[i] = p.Path
	}
	return out
}

// Action is what the executor does to produce an edge's outputs. The core
// never runs actions itself.
type Action interface {
	// Script returns the shell command line equivalent of the action.
	Script() string
}

// Command is a shell command line with every argument already expanded.
type Command struct {
	Line string
}

// Script implements Action.
func (c Command) Script() string { return c.Line }

// Link creates a symbolic link at Target pointing to Source.
type Link struct {
	Source string
	Target string
}

// Script implements Action.
func (l Link) Script() string {
	return "ln -sfn " + shellquote.Join(l.Source, l.Target)
}

// Report renders an R Markdown template through the report driver script.
type Report struct {
	// Prefix is the command prefix (niceness, Rscript and its arguments).
	Prefix         string
	Driver         string
	Template       string
	Output         string
	FinalReportDir string
	LogFile        string
	Params         map[string]any
}

// Script implements Action.
func (r Report) Script() string {
	params, err := json.Marshal(r.Params)
	if err != nil {
		// Params only ever hold strings, numbers and string slices.
		panic(fmt.Sprintf("rules: report params for %s are not JSON-encodable: %v", r.Output, err))
	}
	return r.Prefix + " " + shellquote.Join(
		r.Driver,
		"--reportFile="+r.Template,
		"--outFile="+r.Output,
		"--finalReportDir="+r.FinalReportDir,
		"--report.params="+string(params),
		"--logFile="+r.LogFile,
	)
}

// SortEdges orders edges by ID.
func SortEdges(edges []*Edge) {
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID() < edges[j].ID() })
}
