package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	summarizeOutput string
	summarizeChat   bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <link>",
	Short: "Summarize a YouTube video and render its word cloud",
	Long: `Fetch the transcript of a YouTube video, summarize it with the configured
model and write a word cloud of the summary as a PNG.

Examples:
  tubesum summarize "https://www.youtube.com/watch?v=VIDEOID"
  tubesum summarize "https://www.youtube.com/watch?v=VIDEOID" -o cloud.png
  tubesum summarize "https://www.youtube.com/watch?v=VIDEOID" --chat`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeOutput, "output", "o", "wordcloud.png", "word cloud output file")
	summarizeCmd.Flags().BoolVar(&summarizeChat, "chat", false, "start a chat about the video afterwards")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := buildServices(ctx)
	if err != nil {
		return fmt.Errorf("init services: %w", err)
	}
	defer svc.Close()

	summary, err := svc.Pipeline.Summarize(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", titleStyle.Render("Summary of the video:"))
	fmt.Fprintf(out, "%s\n\n", summary.Summary)
	fmt.Fprintf(out, "%s\n", hintStyle.Render("Thumbnail: "+summary.ThumbnailURL))

	if summarizeOutput != "" {
		if err := os.WriteFile(summarizeOutput, summary.WordCloudPNG, 0o644); err != nil {
			return fmt.Errorf("write word cloud: %w", err)
		}
		fmt.Fprintf(out, "%s\n", hintStyle.Render("Word cloud: "+summarizeOutput))
	}

	if !summarizeChat {
		return nil
	}

	session := svc.Sessions.Create()
	session.Ground(summary.Summary)
	return chatLoop(ctx, svc, session.ID(), cmd.InOrStdin(), out)
}
