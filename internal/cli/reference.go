package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/summarizetube/summarizetube-backend/internal/video"
)

var referenceCmd = &cobra.Command{
	Use:   "reference <link>",
	Short: "Print the video ID and thumbnail URL of a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := video.ParseReference(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ref.ID, ref.ThumbnailURL())
		return nil
	},
}
