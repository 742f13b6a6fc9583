package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockq/queue"
)

func newCopyCmd(g *globalFlags) *cobra.Command {
	var sourceAlloc bool
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy and move a queue",
		Long: `The copy command clones a queue and then moves the original into a new
queue, printing both sides after each step.

By default a clone gets the process default allocator; --source-alloc keeps
the clone on the demo pool instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, func(d *demo) (summary, error) {
				return runCopy(d, sourceAlloc)
			})
		},
	}
	cmd.Flags().BoolVar(&sourceAlloc, "source-alloc", false, "Allocate the clone from the source pool")
	return cmd
}

func runCopy(d *demo, sourceAlloc bool) (s summary, err error) {
	d.printf("=== Copy and move ===\n")

	policy := queue.Policy{}
	if sourceAlloc {
		policy.SelectOnCopy = queue.SelectSource
	}
	original := queue.New[int](queue.WithAllocator(d.pool), queue.WithPolicy(policy))
	defer releaseQueue(original, &err)

	for i := 1; i <= 3; i++ {
		if err := original.Push(i * 10); err != nil {
			return summary{}, err
		}
	}

	copied, err := original.Clone()
	if err != nil {
		return summary{}, err
	}
	defer releaseQueue(copied, &err)

	d.printf("After copy:\n")
	d.printQueue("Original", original)
	d.printQueue("Copy", copied)

	moved := original.Take()
	defer releaseQueue(moved, &err)

	d.printf("After move:\n")
	d.printf("  Original (size %d): empty\n", original.Len())
	d.printQueue("Moved", moved)
	d.printf("\n")

	var values []string
	for v := range moved.All() {
		values = append(values, strconv.Itoa(v))
	}
	return d.summarize("copy", values), nil
}

func (d *demo) printQueue(label string, q *queue.Queue[int]) {
	d.printf("  %s (size %d):", label, q.Len())
	for v := range q.All() {
		d.printf(" %d", v)
	}
	d.printf("\n")
}
