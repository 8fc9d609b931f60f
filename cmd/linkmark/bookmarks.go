package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkoster/linkmark/internal/app"
	"github.com/tkoster/linkmark/internal/model"
	"github.com/tkoster/linkmark/internal/search"
)

func newAddCmd() *cobra.Command {
	var (
		title    string
		notes    string
		folderID string
		favorite bool
		dropped  bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				var folder *string
				if folderID != "" {
					if !a.Folders.Exists(folderID) {
						return fmt.Errorf("no folder with id %s", folderID)
					}
					folder = &folderID
				}

				if dropped {
					b, err := a.Bookmarks.AddDropped(context.Background(), args[0], folder)
					if err != nil {
						return err
					}
					fmt.Printf("Added %s (title resolving)\n", b.ID)
					return nil
				}

				b, err := a.Bookmarks.Add(model.NewBookmarkParams{
					Title:    title,
					Notes:    notes,
					URL:      args[0],
					FolderID: folder,
					Favorite: favorite,
				})
				if err != nil {
					return err
				}
				fmt.Printf("Added %s  %s\n", b.ID, b.URL)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "bookmark title")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "bookmark notes")
	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "folder id")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "mark as favorite")
	cmd.Flags().BoolVar(&dropped, "drop", false, "resolve the title asynchronously")

	return cmd
}

func newListCmd() *cobra.Command {
	var folderID string

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				var bookmarks []model.Bookmark
				if folderID != "" {
					bookmarks = a.Bookmarks.GetInFolder(&folderID)
				} else {
					bookmarks = a.Bookmarks.GetAll()
				}
				printBookmarks(bookmarks)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "only bookmarks in this folder")

	return cmd
}

func newFindCmd() *cobra.Command {
	var (
		folderID string
		fuzzy    bool
	)

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search bookmarks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				query := args[0]

				if fuzzy {
					results := search.FuzzyByTitle(a.Bookmarks.GetAll(), query)
					for _, res := range results {
						fmt.Printf("%s  %s  %s\n", res.Bookmark.ID, res.Bookmark.Title, res.Bookmark.URL)
					}
					return nil
				}

				var bookmarks []model.Bookmark
				if folderID != "" {
					bookmarks = a.Bookmarks.SearchInFolder(query, folderID)
				} else {
					bookmarks = a.Bookmarks.Search(query)
				}
				printBookmarks(bookmarks)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&folderID, "folder", "f", "", "restrict to this folder")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "fuzzy-match titles instead of substring search")

	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				return a.Bookmarks.Delete(args[0])
			})
		},
	}
}

func printBookmarks(bookmarks []model.Bookmark) {
	for _, b := range bookmarks {
		marker := " "
		if b.Favorite {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, b.ID, b.Title, b.URL)
	}
}
