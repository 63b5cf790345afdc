package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return err
		}
		if short {
			cmd.Println(version)
			return nil
		}
		cmd.Printf("quotechain version %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "print the version number only")
	rootCmd.AddCommand(versionCmd)
}
