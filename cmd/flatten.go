package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structflat/structflat/internal/action/flatten"
)

func init() {
	rootCmd.AddCommand(NewFlattenCommand())
}

func NewFlattenCommand() *cobra.Command {
	options := &flatten.Options{}

	// flattenCmd represents the structflat flatten command
	var flattenCmd = &cobra.Command{
		Use:   "flatten",
		Short: "flatten one declaration",
		Long:  "Read a declaration, lift every inline nested declaration to the top level, and write the flattened sequence",
		Run: func(c *cobra.Command, args []string) {
			if options.InFile == "" {
				options.InFile = viper.GetString("flatten.input")
			}
			if options.OutFile == "" {
				options.OutFile = viper.GetString("flatten.output")
			}
			flatten.Generate(options)
		},
	}
	flattenCmd.PersistentFlags().StringVarP(&options.InFile, "input-file", "i", "", "file holding the declaration to flatten")
	flattenCmd.PersistentFlags().StringVarP(&options.OutFile, "output-file", "o", "", "file to write the flattened declarations to, - or empty for stdout")
	flattenCmd.PersistentFlags().BoolVarP(&options.ForcePub, "force-pub", "p", false, "upgrade the outermost declaration's visibility to pub")

	return flattenCmd
}
