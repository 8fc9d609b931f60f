package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkoster/linkmark/internal/app"
	"github.com/tkoster/linkmark/internal/model"
)

func newFolderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}

	cmd.AddCommand(
		newFolderAddCmd(),
		newFolderListCmd(),
		newFolderRemoveCmd(),
		newFolderPinCmd(),
		newFolderMoveCmd(),
	)

	return cmd
}

func newFolderAddCmd() *cobra.Command {
	var (
		parentID string
		symbol   string
		color    string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				var parent *string
				if parentID != "" {
					parent = &parentID
				}
				f, err := a.Folders.Add(model.NewFolderParams{
					Title:       args[0],
					Symbol:      symbol,
					AccentColor: color,
					ParentID:    parent,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Added folder %s  %s\n", f.ID, f.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "parent folder id")
	cmd.Flags().StringVar(&symbol, "icon", "folder", "icon identifier")
	cmd.Flags().StringVar(&color, "color", "blue", "accent color palette key")

	return cmd
}

func newFolderListCmd() *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List folders in scope order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				if parentID != "" {
					printFolders(a.Folders.Children(parentID))
					return nil
				}
				printFolders(a.Folders.TopLevel(true))
				printFolders(a.Folders.TopLevel(false))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "list children of this folder")

	return cmd
}

func newFolderRemoveCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				action := model.DeletionDelete
				if keep {
					action = model.DeletionKeep
				}
				return a.Folders.Delete(args[0], action)
			})
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "reparent contents instead of deleting them")

	return cmd
}

func newFolderPinCmd() *cobra.Command {
	pin := &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin a top-level folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return a.Folders.SetPinned(args[0], true)
			})
		},
	}

	unpin := &cobra.Command{
		Use:   "unpin <id>",
		Short: "Unpin a top-level folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return a.Folders.SetPinned(args[0], false)
			})
		},
	}

	cmd := &cobra.Command{
		Use:   "pinning",
		Short: "Pin or unpin a top-level folder",
	}
	cmd.AddCommand(pin, unpin)
	return cmd
}

func newFolderMoveCmd() *cobra.Command {
	var (
		parentID string
		toRoot   bool
		position int
	)

	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "Reparent or reorder a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				id := args[0]

				if toRoot {
					if err := a.Folders.Move(id, nil); err != nil {
						return err
					}
				} else if parentID != "" {
					if err := a.Folders.Move(id, &parentID); err != nil {
						return err
					}
				}

				if cmd.Flags().Changed("position") {
					return a.Folders.Reorder(id, position)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "new parent folder id")
	cmd.Flags().BoolVar(&toRoot, "root", false, "move to top level")
	cmd.Flags().IntVar(&position, "position", 0, "new position within the sibling scope")

	return cmd
}

func printFolders(folders []model.Folder) {
	for _, f := range folders {
		marker := " "
		if f.Pinned {
			marker = "^"
		}
		fmt.Printf("%s %d  %s  %s\n", marker, f.Index, f.ID, f.Title)
	}
}
