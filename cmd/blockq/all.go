package main

import (
	"github.com/spf13/cobra"
)

func newAllCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every demo in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			demos := []func(d *demo) (summary, error){
				func(d *demo) (summary, error) { return runInts(d, 10) },
				runRecords,
				runReuse,
				func(d *demo) (summary, error) { return runCopy(d, false) },
			}
			for _, fn := range demos {
				if err := g.run(cmd, fn); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
