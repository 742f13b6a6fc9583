package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/blockq/alloc"
)

var version = "dev"

// globalFlags holds the persistent flags shared by every demo.
type globalFlags struct {
	upstream string
	verbose  bool
	quiet    bool
	jsonOut  bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "blockq",
		Short: "Demonstrate the pooled FIFO queue",
		Long: `blockq walks through the queue and pool packages: pushing and draining
elements, iterating, reusing freed pool blocks, and copying and moving queues.
Each demo runs against its own pool and reports block usage at the end.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().
		StringVar(&g.upstream, "upstream", "heap", "Upstream allocator for the pool (heap, mmap or default)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log pool activity to stderr")
	cmd.PersistentFlags().
		BoolVarP(&g.quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().BoolVar(&g.jsonOut, "json", false, "Output a JSON summary per demo")

	cmd.AddCommand(
		newIntsCmd(g),
		newRecordsCmd(g),
		newReuseCmd(g),
		newCopyCmd(g),
		newAllCmd(g),
	)
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// demo is the per-run context: output, number formatting and a fresh pool.
type demo struct {
	g    *globalFlags
	out  io.Writer
	p    *message.Printer
	pool *alloc.Pool
}

// summary is the --json result of one demo.
type summary struct {
	Demo            string   `json:"demo"`
	Values          []string `json:"values,omitempty"`
	AllocatedBlocks int      `json:"allocated_blocks"`
	TotalBlocks     int      `json:"total_blocks"`
	TotalMemory     int      `json:"total_memory"`
}

func upstreamFor(name string) (alloc.Allocator, error) {
	switch name {
	case "heap":
		return alloc.NewHeap(0), nil
	case "mmap":
		return alloc.NewMmap(), nil
	case "default":
		return alloc.Default(), nil
	default:
		return nil, fmt.Errorf("unknown upstream %q (want heap, mmap or default)", name)
	}
}

// releaseQueue releases q and joins any failure into *err.
func releaseQueue(q interface{ Release() error }, err *error) {
	*err = errors.Join(*err, q.Release())
}

// run builds a demo context around fn, closes its pool afterwards and prints
// the JSON summary when requested.
func (g *globalFlags) run(cmd *cobra.Command, fn func(d *demo) (summary, error)) error {
	up, err := upstreamFor(g.upstream)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if g.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	d := &demo{
		g:    g,
		out:  cmd.OutOrStdout(),
		p:    message.NewPrinter(language.English),
		pool: alloc.NewPool(alloc.WithUpstream(up), alloc.WithLogger(logger)),
	}

	s, err := fn(d)
	if cerr := d.pool.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if g.jsonOut && !g.quiet {
		return d.printJSON(s)
	}
	return nil
}

// printf prints a text line unless quiet or JSON output was requested.
func (d *demo) printf(format string, args ...any) {
	if d.g.quiet || d.g.jsonOut {
		return
	}
	d.p.Fprintf(d.out, format, args...)
}

func (d *demo) printJSON(v any) error {
	encoder := json.NewEncoder(d.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printUsage reports the block usage of the demo's pool.
func (d *demo) printUsage() {
	d.printf("Memory blocks in use: %d of %d (total memory: %d bytes)\n\n",
		d.pool.AllocatedBlocks(), d.pool.TotalBlocks(), d.pool.TotalMemory())
}

func (d *demo) summarize(name string, values []string) summary {
	return summary{
		Demo:            name,
		Values:          values,
		AllocatedBlocks: d.pool.AllocatedBlocks(),
		TotalBlocks:     d.pool.TotalBlocks(),
		TotalMemory:     d.pool.TotalMemory(),
	}
}
