// Package cli assembles the voxelcoreserver cobra command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the voxelcoreserver root command with its
// subcommands attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "voxelcoreserver",
		Short: "Drive a voxelcore world through its fixed-tick mutation/pathfinder/mesh cycle",
	}

	root.AddCommand(newRunCommand())
	return root
}
