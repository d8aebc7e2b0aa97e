package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policyrl",
		Short: "Policy-gradient training on a demo maze",
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
	)

	return cmd
}
