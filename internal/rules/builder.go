package rules

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/specialistvlad/bsseqgrid/internal/config"
	"github.com/specialistvlad/bsseqgrid/internal/sample"
	"github.com/specialistvlad/bsseqgrid/internal/stage"
	"github.com/specialistvlad/bsseqgrid/internal/treatment"
)

// Builder turns the run's samples and comparisons into rule edges.
type Builder struct {
	cfg         *config.Model
	registry    *sample.Registry
	namer       *stage.Namer
	comparisons []treatment.Comparison
	wildcards   stage.Wildcards
	// workdir is the absolute output directory; report parameters carry
	// absolute paths because the report engine changes directory.
	workdir string
}

// NewBuilder returns a Builder. comparisons must already be validated.
func NewBuilder(
	cfg *config.Model,
	reg *sample.Registry,
	namer *stage.Namer,
	comparisons []treatment.Comparison,
	workdir string,
) *Builder {
	return &Builder{
		cfg:         cfg,
		registry:    reg,
		namer:       namer,
		comparisons: comparisons,
		wildcards:   stage.Wildcards{Assembly: cfg.General.Assembly},
		workdir:     workdir,
	}
}

// Edges returns every edge of the run in a deterministic order.
func (b *Builder) Edges() ([]*Edge, error) {
	var edges []*Edge

	edges = append(edges, b.genomeEdges()...)
	for _, s := range b.registry.All() {
		se, err := b.sampleEdges(s)
		if err != nil {
			return nil, fmt.Errorf("assembling rules for sample %q: %w", s.ID, err)
		}
		edges = append(edges, se...)
	}
	for _, c := range b.comparisons {
		ce, err := b.comparisonEdges(c)
		if err != nil {
			return nil, fmt.Errorf("assembling rules for comparison %q: %w", c.ID, err)
		}
		edges = append(edges, ce...)
	}
	edges = append(edges, b.templateEdges(edges)...)
	return edges, nil
}

// Closure returns the edges needed to produce outputs: their producers, the
// producers of those producers' inputs, and so on. Paths nobody produces are
// source files. The result is ordered like Edges.
func (b *Builder) Closure(outputs []string) ([]*Edge, error) {
	edges, err := b.Edges()
	if err != nil {
		return nil, err
	}
	producers, err := IndexProducers(edges)
	if err != nil {
		return nil, err
	}

	selected := make(map[*Edge]bool)
	queue := append([]string(nil), outputs...)
	sort.Strings(queue)
	for _, out := range queue {
		if _, ok := producers[out]; !ok {
			return nil, fmt.Errorf("no rule produces requested output %s", out)
		}
	}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		e, ok := producers[p]
		if !ok || selected[e] {
			continue
		}
		selected[e] = true
		queue = append(queue, e.InputPaths()...)
	}

	closure := make([]*Edge, 0, len(selected))
	for _, e := range edges {
		if selected[e] {
			closure = append(closure, e)
		}
	}
	return closure, nil
}

// IndexProducers maps every output path to the edge producing it.
func IndexProducers(edges []*Edge) (map[string]*Edge, error) {
	producers := make(map[string]*Edge)
	for _, e := range edges {
		for _, out := range e.OutputPaths() {
			if prev, ok := producers[out]; ok {
				return nil, &stage.PathCollisionError{Path: out, First: prev.ID(), Second: e.ID()}
			}
			producers[out] = e
		}
	}
	return producers, nil
}

// command builds a shell line for tool. The tool's configured argument
// string is inserted verbatim before args.
func (b *Builder) command(tool string, args ...string) Command {
	return Command{Line: b.commandPrefix(tool) + joinQuoted(args)}
}

func (b *Builder) commandPrefix(tool string) string {
	var parts []string
	if n := b.cfg.Execution.Nice; n > 0 {
		parts = append(parts, shellquote.Join(b.cfg.Tool("nice").Executable), "-n", strconv.Itoa(n))
	}
	t := b.cfg.Tool(tool)
	parts = append(parts, shellquote.Join(t.Executable))
	if t.Args != "" {
		parts = append(parts, t.Args)
	}
	return strings.Join(parts, " ")
}

// joinQuoted renders args as shell words, each preceded by a space.
func joinQuoted(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return " " + shellquote.Join(args...)
}

// scriptsDir is where the pipeline's helper R scripts live.
func (b *Builder) scriptsDir() string {
	return path.Join(b.cfg.Locations.LibexecDir, "scripts") + "/"
}

// abs anchors a run-relative path at the output directory.
func (b *Builder) abs(p string) string {
	if b.workdir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.workdir, p)
}

// toolDir returns the directory of a tool's executable, or "" when the
// executable is looked up on PATH.
func (b *Builder) toolDir(tool string) string {
	exe := b.cfg.Tool(tool).Executable
	if !strings.ContainsRune(exe, '/') {
		return ""
	}
	return filepath.Dir(exe)
}

func (b *Builder) report(template, output, subdir, log string, params map[string]any) Report {
	return Report{
		Prefix:         b.commandPrefix("Rscript"),
		Driver:         b.scriptsDir() + "report_functions.R",
		Template:       stage.Template(template),
		Output:         output,
		FinalReportDir: "Final_Report/" + subdir + "/",
		LogFile:        log,
		Params:         params,
	}
}

func ports(name string, paths ...string) []Port {
	out := make([]Port, 0, len(paths))
	for i, p := range paths {
		n := name
		if len(paths) > 1 {
			n = name + strconv.Itoa(i+1)
		}
		out = append(out, Port{Name: n, Path: p})
	}
	return out
}
