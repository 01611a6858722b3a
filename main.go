package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/ZacxDev/story-renderer/internal/config"
	"github.com/ZacxDev/story-renderer/pkg/storyrender"
)

var (
	rootCmd = &cobra.Command{
		Use:   config.AppName,
		Short: "Burn story stickers, subtitles and captions into the story video",
		Long: `story-renderer fetches a story from the render API (or a JSON file), downloads its
video and stickers and renders the final video with ffmpeg in three steps:
stickers overlay, subtitles burn-in and text captions.

Examples:
  # Render a story from the API
  story-renderer render -s http://localhost:13050/api/v5/renders/7or2o

  # Show what would be rendered, without running ffmpeg
  story-renderer plan -s ./story.json -a ./assets`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Render a story",
		Long: fmt.Sprintf(`Render a story into <assets>/<viewKey>/%s.

Supported output profiles:
%s
Example:
  story-renderer render -s story.json -p tiktok -v`, config.FinalOutput, formatSupportedProfiles()),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := renderOptions(cmd)
			if err != nil {
				return err
			}
			res, err := render(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Println(res.FinalOutput)
			return nil
		},
	}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the render plan of a story as YAML",
		Long: `Prepare the story assets and print the ffmpeg stages that render would run.
The video and stickers are downloaded and resized, ffmpeg stages are not executed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := renderOptions(cmd)
			if err != nil {
				return err
			}
			opts.DryRun = true
			res, err := render(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(res.Plan)
			if err != nil {
				return fmt.Errorf("failed to marshal plan to yaml: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "List supported output profiles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(formatSupportedProfiles())
		},
	}
)

func formatSupportedProfiles() string {
	var sb strings.Builder
	for _, name := range storyrender.GetSupportedProfiles() {
		sb.WriteString(fmt.Sprintf("- %s\n", name))
	}
	return sb.String()
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("story", "s", "", "Story URL or JSON file")
	cmd.Flags().StringP("config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringP("assets-dir", "a", "", "Assets directory (overrides configuration)")
	cmd.Flags().StringP("profile", "p", "",
		fmt.Sprintf("Output profile (%s)", strings.Join(storyrender.GetSupportedProfiles(), ", ")))
	cmd.Flags().Bool("legacy-keys", false, "Match stickers to assets by the last 6 characters of the image URL")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.MarkFlagRequired("story")
}

func renderOptions(cmd *cobra.Command) (storyrender.Options, error) {
	var opts storyrender.Options
	opts.StoryRef, _ = cmd.Flags().GetString("story")
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.AssetsDir, _ = cmd.Flags().GetString("assets-dir")
	opts.Profile, _ = cmd.Flags().GetString("profile")
	opts.LegacyKeys, _ = cmd.Flags().GetBool("legacy-keys")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")

	if opts.StoryRef == "" {
		return opts, fmt.Errorf("story reference is required")
	}
	return opts, nil
}

// render sets up program logging and runs the renderer.
func render(ctx context.Context, opts storyrender.Options) (*storyrender.Result, error) {
	cfg, err := config.LoadConfiguration(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logging.Prepare(opts.Verbose)
	if err != nil {
		return nil, err
	}
	defer log.Sync()
	defer zap.RedirectStdLog(log)()

	opts.Config, opts.Logger = cfg, log
	res, err := storyrender.Render(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Skipped) > 0 {
		log.Warn("Stickers without prepared asset were left out", zap.Int("count", len(res.Skipped)))
	}
	return res, nil
}

func init() {
	addRenderFlags(renderCmd)
	addRenderFlags(planCmd)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(profilesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
