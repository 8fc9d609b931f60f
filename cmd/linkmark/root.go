package main

import (
	"github.com/spf13/cobra"

	"github.com/tkoster/linkmark/internal/app"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linkmark",
		Short:         "linkmark manages a synced collection of bookmarks and folders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		newAddCmd(),
		newListCmd(),
		newFindCmd(),
		newRemoveCmd(),
		newFolderCmd(),
		newImportCmd(),
		newExportCmd(),
		newPreviewCmd(),
	)

	return root
}

// withApp opens the app for one command invocation and closes it after.
func withApp(fn func(a *app.App) error) error {
	a, err := app.New(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
