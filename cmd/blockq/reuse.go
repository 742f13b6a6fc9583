package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/blockq/queue"
)

func newReuseCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reuse",
		Short: "Show freed pool blocks being reused",
		Long: `The reuse command pushes five elements, pops three, pushes five more and
drains the queue, reporting the pool's block count after each step. Freed
blocks are kept by the pool, so the second round only grows by two.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, runReuse)
		},
	}
}

func runReuse(d *demo) (s summary, err error) {
	d.printf("=== Memory reuse ===\n")

	q := queue.New[int](queue.WithAllocator(d.pool))
	defer releaseQueue(q, &err)

	d.printf("Initial blocks: %d\n", d.pool.TotalBlocks())

	for i := range 5 {
		if err := q.Push(i); err != nil {
			return summary{}, err
		}
	}
	d.printf("After pushing 5: %d blocks\n", d.pool.TotalBlocks())

	for range 3 {
		if err := q.Pop(); err != nil {
			return summary{}, err
		}
	}
	d.printf("After popping 3: %d blocks\n", d.pool.TotalBlocks())
	d.printf("Free blocks: %d\n", d.pool.TotalBlocks()-d.pool.AllocatedBlocks())

	for i := 10; i < 15; i++ {
		if err := q.Push(i); err != nil {
			return summary{}, err
		}
	}
	d.printf("After pushing 5 more: %d blocks\n", d.pool.TotalBlocks())

	if err := q.Clear(); err != nil {
		return summary{}, err
	}
	d.printf("After clearing: %d blocks (kept by the pool for reuse)\n", d.pool.TotalBlocks())

	d.printUsage()
	return d.summarize("reuse", nil), nil
}
