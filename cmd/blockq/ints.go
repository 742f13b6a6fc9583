package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockq/queue"
)

func newIntsCmd(g *globalFlags) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "ints",
		Short: "Push, iterate and drain a queue of integers",
		Long: `The ints command pushes 1..N into a pooled queue, prints its size, front
and back, iterates it, then pops everything in FIFO order.

Example:
  blockq ints
  blockq ints --count 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, func(d *demo) (summary, error) {
				return runInts(d, count)
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of integers to push")
	return cmd
}

func runInts(d *demo, count int) (s summary, err error) {
	d.printf("=== Queue of int ===\n")

	q := queue.New[int](queue.WithAllocator(d.pool))
	defer releaseQueue(q, &err)

	for i := 1; i <= count; i++ {
		if err := q.Push(i); err != nil {
			return summary{}, err
		}
	}

	d.printf("Size: %d\n", q.Len())
	if front, err := q.Front(); err == nil {
		d.printf("Front: %d\n", front)
	}
	if back, err := q.Back(); err == nil {
		d.printf("Back: %d\n", back)
	}

	d.printf("Iteration:")
	for it := q.Begin(); !it.Equal(q.End()); it.Next() {
		d.printf(" %d", it.Value())
	}
	d.printf("\n")

	var drained []string
	d.printf("Drain (FIFO):")
	for !q.Empty() {
		v, err := q.PopFront()
		if err != nil {
			return summary{}, err
		}
		drained = append(drained, strconv.Itoa(v))
		d.printf(" %d", v)
	}
	d.printf("\n")

	d.printUsage()
	return d.summarize("ints", drained), nil
}
