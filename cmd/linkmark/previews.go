package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkoster/linkmark/internal/app"
)

func newPreviewCmd() *cobra.Command {
	var warmAll bool

	cmd := &cobra.Command{
		Use:   "preview [bookmark-id]",
		Short: "Resolve and cache link previews",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				ctx := context.Background()

				if warmAll {
					for _, b := range a.Bookmarks.GetAll() {
						p := a.Previews.Populate(ctx, b)
						fmt.Printf("%s  %s\n", b.ID, p.State)
					}
					return nil
				}

				if len(args) == 0 {
					return fmt.Errorf("need a bookmark id or --all")
				}

				b, err := a.Bookmarks.Find(args[0])
				if err != nil {
					return err
				}
				p := a.Previews.Populate(ctx, b)
				fmt.Printf("%s  %s  (%d bytes)\n", b.ID, p.State, len(p.Image))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&warmAll, "all", false, "resolve previews for every bookmark")

	return cmd
}
