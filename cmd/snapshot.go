package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/structflat/structflat/internal/action/flatten"
	"github.com/structflat/structflat/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var (
		options       = &flatten.Options{}
		manifestPath  string
		snapName      string
		snapVersion   string
		printDiff     bool
		listSnapshots bool
	)

	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "flatten and record the output in a snapshot manifest",
		Long:  "Run the flattener, record the output as a named/versioned snapshot, and optionally diff it against the previous snapshot",
		RunE: func(c *cobra.Command, args []string) error {
			if listSnapshots {
				m, err := snapshot.List(manifestPath)
				if err != nil {
					return err
				}
				for _, s := range m.Snapshots {
					c.Printf("%s\t%s\t%s\n", s.Name, s.Version, s.File)
				}
				return nil
			}
			if _, err := snapshot.Generate(options, manifestPath, snapName, snapVersion); err != nil {
				return err
			}
			if printDiff {
				diff, err := snapshot.DiffCurrentWithPrevious(manifestPath)
				if err != nil {
					return err
				}
				_, _ = os.Stdout.WriteString(diff)
			}
			return nil
		},
	}
	snapshotCmd.PersistentFlags().StringVarP(&options.InFile, "input-file", "i", "", "file holding the declaration to flatten")
	snapshotCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "o", "", "file to write the flattened declarations to")
	snapshotCmd.PersistentFlags().BoolVarP(&options.ForcePub, "force-pub", "p", false, "upgrade the outermost declaration's visibility to pub")
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "structflat.manifest.yaml", "snapshot manifest path")
	snapshotCmd.PersistentFlags().StringVarP(&snapName, "name", "n", "default", "snapshot name")
	snapshotCmd.PersistentFlags().StringVarP(&snapVersion, "snapshot-version", "V", "", "snapshot version")
	snapshotCmd.PersistentFlags().BoolVar(&printDiff, "diff", false, "print a diff against the previous snapshot")
	snapshotCmd.PersistentFlags().BoolVar(&listSnapshots, "list", false, "list recorded snapshots and exit")

	return snapshotCmd
}
