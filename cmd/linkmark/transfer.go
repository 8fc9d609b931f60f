package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkoster/linkmark/internal/app"
	"github.com/tkoster/linkmark/internal/exporter"
	"github.com/tkoster/linkmark/internal/importer"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser HTML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()

				folders, bookmarks, err := importer.Import(file, a.Folders, a.Bookmarks)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d bookmarks, %d folders\n", bookmarks, folders)
				return nil
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to Netscape HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				outputPath := ""
				if len(args) > 0 {
					outputPath = args[0]
				}
				if outputPath == "" {
					var err error
					outputPath, err = exporter.DefaultExportPath()
					if err != nil {
						return err
					}
				}

				folders := a.Folders.GetAll()
				bookmarks := a.Bookmarks.GetAll()
				html := exporter.ExportHTML(folders, bookmarks)

				if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
					return err
				}
				fmt.Printf("Exported %d bookmarks, %d folders to %s\n",
					len(bookmarks), len(folders), outputPath)
				return nil
			})
		},
	}
}
