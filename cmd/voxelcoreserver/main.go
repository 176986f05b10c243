// Command voxelcoreserver drives a synthetic world through the fixed-tick
// mutation/pathfinder/mesh cycle described in §5, for manual exercising and
// benchmarking of the tree, accessor, mesher, and pathfinder together.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/voxelcore/cmd/voxelcoreserver/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
