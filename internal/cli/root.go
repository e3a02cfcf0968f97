package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// userAgent is the default User-Agent sent by every CLI request.
var userAgent = "riposte/" + version

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "riposte",
	Short:   "A minimal terminal-based HTTP client",
	Version: version,
	Long: `Riposte is a minimal terminal-based HTTP client. It builds URLs with
encoded query and fragment components, sends requests with custom headers,
cookies, and string, form, or stream bodies, and prints the parsed
response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main() and only needs to happen once.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(benchCmd)
}
