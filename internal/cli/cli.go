// ABOUTME: Subcommand implementations behind the umf binary
// ABOUTME: Thin orchestration over the installer, scaffold, and app packages

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/JINWOO-J/universal-makefile/internal/app"
	"github.com/JINWOO-J/universal-makefile/internal/config"
	"github.com/JINWOO-J/universal-makefile/internal/installer"
	"github.com/JINWOO-J/universal-makefile/internal/ui"
)

// CLI carries the per-invocation state every subcommand needs.
type CLI struct {
	cfg     config.Config
	workDir string
	out     io.Writer
}

// New builds a CLI writing to stdout. workDir is a scratch directory for
// downloads and extraction, owned by the caller.
func New(cfg config.Config, workDir string) *CLI {
	return &CLI{cfg: cfg, workDir: workDir, out: os.Stdout}
}

func (c *CLI) manager() *installer.Manager {
	return installer.New(c.cfg, c.workDir, ui.New(c.cfg.Yes), ui.ProgressWriter())
}

// Install installs the build system using the given mechanism and
// scaffolds the project files around it.
func (c *CLI) Install(ctx context.Context, mech installer.Mechanism) error {
	return c.manager().Install(ctx, mech)
}

// Update brings an existing installation up to date using whatever
// mechanism installed it.
func (c *CLI) Update(ctx context.Context) error {
	_, err := c.manager().Reconcile(ctx)
	return err
}

// Uninstall removes the installed build system, keeping project files.
func (c *CLI) Uninstall(ctx context.Context) error {
	return c.manager().Uninstall(ctx)
}

// Status prints the detected installation in the requested format.
func (c *CLI) Status(ctx context.Context, format string) error {
	st, err := c.manager().Status(ctx)
	if err != nil {
		return err
	}
	switch format {
	case "", "table":
		return writeStateTable(c.out, st)
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		data, err := yaml.Marshal(st)
		if err != nil {
			return err
		}
		_, err = c.out.Write(data)
		return err
	default:
		return fmt.Errorf("unknown status format %q (want table, json, or yaml)", format)
	}
}

func writeStateTable(w io.Writer, st *installer.State) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "mechanism:\t%s\n", st.Mechanism)
	fmt.Fprintf(tw, "install path:\t%s\n", st.InstallPath)
	if st.Ref != "" {
		fmt.Fprintf(tw, "installed ref:\t%s\n", st.Ref)
	}
	if st.Pin != "" {
		fmt.Fprintf(tw, "pinned ref:\t%s\n", st.Pin)
	}
	if st.LastRelease != "" {
		fmt.Fprintf(tw, "last release:\t%s\n", st.LastRelease)
	}
	fmt.Fprintf(tw, "remote:\t%s\n", st.RemoteURL)
	if st.Branch != "" {
		fmt.Fprintf(tw, "branch:\t%s\n", st.Branch)
	}
	if st.Commit != "" {
		fmt.Fprintf(tw, "commit:\t%s\n", st.Commit)
	}
	if st.Dirty {
		fmt.Fprintf(tw, "dirty:\ttrue\n")
	}
	return tw.Flush()
}

// App lists the bundled example templates, or installs the named one
// into the project.
func (c *CLI) App(args []string) error {
	examples, err := app.List(c.cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		for _, ex := range examples {
			fmt.Fprintf(tw, "%s\t%s\n", ex.Name, ex.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "\ninstall one with: umf app <name>")
		return nil
	}

	ex, err := app.Find(examples, args[0])
	if err != nil {
		return err
	}
	if ui.IsInteractive() {
		if md, err := app.Readme(ex); err == nil && md != "" {
			fmt.Fprint(c.out, md)
		}
	}
	installed, err := app.Install(c.cfg, ex)
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Fprintln(c.out, "nothing to install; all files already exist")
		return nil
	}
	fmt.Fprintf(c.out, "installed example %s:\n", ex.Name)
	for _, f := range installed {
		fmt.Fprintf(c.out, "  %s\n", f)
	}
	return nil
}
