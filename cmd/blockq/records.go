package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockq/queue"
)

// Record is the demo payload: several fields, some of them owning.
type Record struct {
	ID          int
	Name        string
	Value       float64
	Description string
	Tags        []string
}

func (r Record) String() string {
	return fmt.Sprintf("Record{id=%d, name=%q, value=%.1f, description=%q, tags=%v}",
		r.ID, r.Name, r.Value, r.Description, r.Tags)
}

// Clone copies the tag slice so queue copies never share it.
func (r Record) Clone() Record {
	r.Tags = slices.Clone(r.Tags)
	return r
}

var demoRecords = []Record{
	{1, "First", 1.1, "Description 1", []string{"odd"}},
	{2, "Second", 2.2, "Description 2", []string{"even"}},
	{3, "Third", 3.3, "Description 3", []string{"odd"}},
	{4, "Fourth", 4.4, "Description 4", []string{"even", "square"}},
}

func newRecordsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Push, iterate and drain a queue of multi-field records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.run(cmd, runRecords)
		},
	}
}

func runRecords(d *demo) (s summary, err error) {
	d.printf("=== Queue of Record ===\n")

	q := queue.New[Record](queue.WithAllocator(d.pool))
	defer releaseQueue(q, &err)

	for _, r := range demoRecords {
		if err := q.Push(r.Clone()); err != nil {
			return summary{}, err
		}
	}
	d.printf("Size: %d\n", q.Len())

	d.printf("Iteration:\n")
	for it := q.CBegin(); !it.Done(); it.Next() {
		d.printf("  %v\n", it.Value())
	}

	var drained []string
	d.printf("Drain (FIFO):\n")
	for !q.Empty() {
		r, err := q.PopFront()
		if err != nil {
			return summary{}, err
		}
		drained = append(drained, r.Name)
		d.printf("  %v\n", r)
	}

	d.printUsage()
	return d.summarize("records", drained), nil
}
