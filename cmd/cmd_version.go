package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridable at build time with
// -ldflags "-X github.com/suigate/mint-gateway/cmd.Version=...".
var Version = "v0.2.0"

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show mint-gateway version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Println(Version)
			return nil
		},
	}
}
