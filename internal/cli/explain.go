package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ib-77/ropipe/internal/builtin"
	"github.com/ib-77/ropipe/internal/presentation/tui"
	"github.com/ib-77/ropipe/pkg/rop/chain"
	"github.com/ib-77/ropipe/pkg/rop/plan"
)

// InspectOptions configures explain and check.
type InspectOptions struct {
	Source string
	Mode   string
	Env    *builtin.Env
	Stdout io.Writer
	// Render overrides the markdown renderer; nil picks one for Stdout.
	Render tui.Renderer
}

func build(opts InspectOptions) (*chain.Chain, string, error) {
	mode, err := chain.ParseMode(opts.Mode)
	if err != nil {
		return nil, "", &UsageError{Err: err}
	}

	initial, steps, err := splitLoose(opts.Source)
	if err != nil {
		return nil, "", err
	}

	c, err := chain.Build(builtin.Bindings(opts.Env, nil), steps, chain.WithMode(mode))
	if err != nil {
		return nil, "", err
	}
	return c, initial, nil
}

// Check classifies and binds a chain without running it.
func Check(opts InspectOptions) error {
	c, _, err := build(opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(opts.Stdout, "ok: %s\n", describe("", c.Plan().Len()))
	return err
}

// Explain prints the nested call expression of a chain and its steps.
func Explain(opts InspectOptions) error {
	c, initial, err := build(opts)
	if err != nil {
		return err
	}
	return render(opts.Stdout, opts.Render, ExplainMarkdown(c.Plan(), initial))
}

// ExplainMarkdown renders a plan as a markdown document.
func ExplainMarkdown(p *plan.Plan, initial string) string {
	var b strings.Builder
	b.WriteString("## Expression\n\n```\n")
	b.WriteString(p.Expr(initial))
	b.WriteString("\n```\n\n## Steps\n\n")
	b.WriteString("| # | step | shape | fallible | suspending |\n")
	b.WriteString("|---|------|-------|----------|------------|\n")
	for _, n := range p.Nodes() {
		d := n.Descriptor
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s | %s |\n",
			n.Index, escapeCell(d.Token()), d.Kind(), yesNo(d.Fallible()), yesNo(d.Suspending()))
	}
	return b.String()
}

// Builtins lists the builtin bindings.
func Builtins(w io.Writer, r tui.Renderer) error {
	var b strings.Builder
	b.WriteString("## Builtins\n\n| step | usage |\n|------|-------|\n")
	for _, e := range builtin.Catalog() {
		fmt.Fprintf(&b, "| `%s` | %s |\n", e.Name, e.Usage)
	}
	return render(w, r, b.String())
}

func render(w io.Writer, r tui.Renderer, markdown string) error {
	if r == nil {
		r = tui.RendererFor(w)
	}
	out, err := r(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
