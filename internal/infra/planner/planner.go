// Package planner generates plan drafts from YAML templates.
package planner

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/volition-os/volition/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// Built-in template names.
const (
	TemplateSprint     = "sprint"
	TemplateStandard   = "standard"
	TemplateExpedition = "expedition"
)

// Ensure Generator implements domain.NamedPlanGenerator.
var _ domain.NamedPlanGenerator = (*Generator)(nil)

// Generator builds plan drafts from the built-in templates and, when set,
// a directory of custom templates that override built-ins by name.
type Generator struct {
	builtin fs.FS
	dir     string
}

// New creates a Generator. An empty or missing templatesDir means built-ins only.
func New(templatesDir string) *Generator {
	sub, err := fs.Sub(builtinFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return &Generator{builtin: sub, dir: templatesDir}
}

// TemplateFor returns the built-in template used for a complexity score.
func TemplateFor(complexity int) string {
	switch {
	case complexity <= 2:
		return TemplateSprint
	case complexity == 3:
		return TemplateStandard
	default:
		return TemplateExpedition
	}
}

// Generate renders the template matching the goal's complexity.
func (g *Generator) Generate(ctx context.Context, goal *domain.Goal) (*domain.PlanDraft, error) {
	return g.GenerateNamed(ctx, goal, TemplateFor(goal.Complexity))
}

// GenerateNamed renders the named template for the goal.
func (g *Generator) GenerateNamed(ctx context.Context, goal *domain.Goal, name string) (*domain.PlanDraft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	draft, err := g.load(name)
	if err != nil {
		return nil, err
	}
	out := render(draft, goal)
	out.Template = name
	return out, nil
}

// Templates lists every available template name, sorted.
func (g *Generator) Templates() []string {
	var names []string
	if entries, err := fs.ReadDir(g.builtin, "."); err == nil {
		for _, e := range entries {
			if name, ok := templateName(e.Name()); ok {
				names = append(names, name)
			}
		}
	}
	if g.dir != "" {
		if entries, err := os.ReadDir(g.dir); err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if name, ok := templateName(e.Name()); ok {
					names = append(names, name)
				}
			}
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func templateName(file string) (string, bool) {
	lower := strings.ToLower(file)
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(lower, ext) {
			return file[:len(file)-len(ext)], true
		}
	}
	return "", false
}

// load reads the named template, preferring the custom directory.
func (g *Generator) load(name string) (*domain.PlanDraft, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrTemplateNotFound)
	}

	if g.dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(g.dir, name+ext)
			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", path, err)
			}
			draft, err := parse(data)
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", path, err)
			}
			return draft, nil
		}
	}

	data, err := fs.ReadFile(g.builtin, name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrTemplateNotFound)
	}
	return parse(data)
}

func parse(data []byte) (*domain.PlanDraft, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: template is empty", domain.ErrInvalidPlan)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var draft domain.PlanDraft
	if err := dec.Decode(&draft); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return &draft, nil
}

var placeholderRe = regexp.MustCompile(`\{\{\s*(goal|outcome|scope\.(\d+))\s*\}\}`)

// fill replaces placeholders in s. ok is false when s references a scope
// item or outcome the goal does not have.
func fill(s string, goal *domain.Goal) (string, bool) {
	ok := true
	out := placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholderRe.FindStringSubmatch(m)
		switch {
		case sub[1] == "goal":
			return goal.Title
		case sub[1] == "outcome":
			if strings.TrimSpace(goal.Scope.Outcome) == "" {
				ok = false
			}
			return goal.Scope.Outcome
		default:
			n, _ := strconv.Atoi(sub[2])
			if n < 1 || n > len(goal.Scope.InScope) {
				ok = false
				return ""
			}
			return goal.Scope.InScope[n-1]
		}
	})
	return out, ok
}

// render fills every title. A node whose title references a missing scope
// item is dropped with its children, and so are clusters and milestones
// left empty by that.
func render(src *domain.PlanDraft, goal *domain.Goal) *domain.PlanDraft {
	out := &domain.PlanDraft{}
	for _, ph := range src.Phases {
		title, ok := fill(ph.Title, goal)
		if !ok {
			continue
		}
		phase := domain.PhaseDraft{Title: title}
		for _, ms := range ph.Milestones {
			if m, ok := renderMilestone(ms, goal); ok {
				phase.Milestones = append(phase.Milestones, m)
			}
		}
		out.Phases = append(out.Phases, phase)
	}
	return out
}

func renderMilestone(src domain.MilestoneDraft, goal *domain.Goal) (domain.MilestoneDraft, bool) {
	title, ok := fill(src.Title, goal)
	if !ok {
		return domain.MilestoneDraft{}, false
	}
	ms := domain.MilestoneDraft{Title: title}
	for _, cl := range src.Clusters {
		ctitle, ok := fill(cl.Title, goal)
		if !ok {
			continue
		}
		cluster := domain.ClusterDraft{Title: ctitle}
		for _, jd := range cl.Jobs {
			jtitle, ok := fill(jd.Title, goal)
			if !ok {
				continue
			}
			jd.Title = jtitle
			cluster.Jobs = append(cluster.Jobs, jd)
		}
		if len(cluster.Jobs) > 0 || len(cl.Jobs) == 0 {
			ms.Clusters = append(ms.Clusters, cluster)
		}
	}
	if len(ms.Clusters) == 0 && len(src.Clusters) > 0 {
		return domain.MilestoneDraft{}, false
	}
	return ms, true
}
