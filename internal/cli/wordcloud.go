package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/summarizetube/summarizetube-backend/internal/config"
	"github.com/summarizetube/summarizetube-backend/internal/wordcloud"
)

var (
	cloudOutput string
	cloudLayout bool
	cloudConfig config.WordCloudConfig
)

var wordcloudCmd = &cobra.Command{
	Use:   "wordcloud [file]",
	Short: "Render a word cloud from a text file",
	Long: `Render a word cloud PNG from plain text read from a file or stdin. No
model or network access is needed.

Examples:
  tubesum wordcloud notes.txt -o notes.png
  cat transcript.txt | tubesum wordcloud --mask shape.png --seed 7
  tubesum wordcloud notes.txt --layout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWordcloud,
}

func init() {
	defaults := wordcloud.DefaultOptions()
	f := wordcloudCmd.Flags()
	f.StringVarP(&cloudOutput, "output", "o", "wordcloud.png", "output PNG file")
	f.BoolVar(&cloudLayout, "layout", false, "print word placements instead of writing a PNG")
	f.IntVar(&cloudConfig.Width, "width", defaults.Width, "canvas width")
	f.IntVar(&cloudConfig.Height, "height", defaults.Height, "canvas height")
	f.StringVar(&cloudConfig.Background, "background", defaults.Background, "background color name or #rrggbb")
	f.StringVar(&cloudConfig.Colormap, "colormap", defaults.Colormap, "viridis, plasma or magma")
	f.Int64Var(&cloudConfig.Seed, "seed", defaults.Seed, "layout seed")
	f.IntVar(&cloudConfig.MaxWords, "max-words", defaults.MaxWords, "maximum number of words")
	f.StringVar(&cloudConfig.MaskPath, "mask", "", "mask image; white pixels stay empty")
	f.StringVar(&cloudConfig.StopwordsPath, "stopwords", "", "YAML file with extra stopwords")
}

func runWordcloud(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read text: %w", err)
	}

	opts, err := wordcloud.OptionsFromConfig(cloudConfig)
	if err != nil {
		return err
	}
	renderer, err := wordcloud.NewRenderer(opts)
	if err != nil {
		return err
	}

	if cloudLayout {
		return printLayout(cmd.OutOrStdout(), renderer, string(text))
	}

	png, err := renderer.Render(string(text))
	if err != nil {
		return err
	}
	if err := os.WriteFile(cloudOutput, png, 0o644); err != nil {
		return fmt.Errorf("write word cloud: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), hintStyle.Render("Word cloud: "+cloudOutput))
	return nil
}

// printLayout writes one tab separated line per placed word:
// text, font size, x, y and orientation.
func printLayout(w io.Writer, renderer *wordcloud.Renderer, text string) error {
	placements, err := renderer.Layout(text)
	if err != nil {
		return err
	}
	for _, p := range placements {
		orientation := "horizontal"
		if p.Vertical {
			orientation = "vertical"
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.0f\t%s\n", p.Text, p.FontSize, p.X, p.Y, orientation)
	}
	return nil
}
