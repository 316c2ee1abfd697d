package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/tweetshot/internal/avatar"
	"github.com/AnyUserName/tweetshot/internal/export"
	"github.com/AnyUserName/tweetshot/internal/palette"
	"github.com/AnyUserName/tweetshot/internal/profile"
	"github.com/AnyUserName/tweetshot/internal/render"
	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderName       string
	renderHandle     string
	renderBody       string
	renderAvatar     string
	renderAvatarFile string
	renderLikes      string
	renderRetweets   string
	renderReplies    string
	renderViews      string
	renderBackground string
	renderWidth      int
	renderHeight     int
	renderProfile    string
	renderOutDir     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one post preview and save it as an image",
	Long: `Starts from the default post, applies every field given on the command
line and saves the screenshot into the output directory.

The file is always named tweet-screenshot.<ext>; an existing file is kept
and the new one gets a " (n)" suffix, like a browser download.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	d := state.Defaults()
	f := renderCmd.Flags()
	f.StringVar(&renderName, "name", d.DisplayName, "display name")
	f.StringVar(&renderHandle, "handle", d.Handle, "username, shown with a leading @")
	f.StringVar(&renderBody, "body", d.Body, "post text")
	f.StringVar(&renderAvatar, "avatar", d.Avatar, "avatar URL or data URI")
	f.StringVar(&renderAvatarFile, "avatar-file", "", "local avatar image (overrides --avatar)")
	f.StringVar(&renderLikes, "likes", d.Likes, "likes counter, shown verbatim")
	f.StringVar(&renderRetweets, "retweets", d.Retweets, "retweets counter, shown verbatim")
	f.StringVar(&renderReplies, "replies", d.Replies, "replies counter, shown verbatim")
	f.StringVar(&renderViews, "views", d.Views, "views counter, shown verbatim")
	f.StringVarP(&renderBackground, "background", "b", palette.Default().Label, "background label or token (see \"tweetshot palette\")")
	f.IntVar(&renderWidth, "width", d.Width, "width in px (min 200)")
	f.IntVar(&renderHeight, "height", d.Height, "height in px (min 200)")
	f.StringVarP(&renderProfile, "profile", "p", "", "capture profile (default from config)")
	f.StringVarP(&renderOutDir, "out", "o", "", "output directory (default from config)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	start := time.Now()
	ctx := cmd.Context()

	bg, ok := palette.ByLabel(renderBackground)
	if !ok {
		return fmt.Errorf("unknown background %q", renderBackground)
	}

	store := state.New()
	store.Apply(state.Form{
		DisplayName: &renderName,
		Handle:      &renderHandle,
		Avatar:      &renderAvatar,
		Body:        &renderBody,
		Likes:       &renderLikes,
		Retweets:    &renderRetweets,
		Replies:     &renderReplies,
		Views:       &renderViews,
		Background:  &bg.Token,
		Width:       &renderWidth,
		Height:      &renderHeight,
	})
	if renderAvatarFile != "" {
		uploadAvatarFile(store, renderAvatarFile)
	}

	profName := renderProfile
	if profName == "" {
		profName = cfg.Profile
	}
	if !profile.Known(profName) {
		logger.Warn("unknown profile, using default",
			zap.String("profile", profName), zap.String("default", profile.DefaultName))
	}
	outDir := renderOutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	r, err := render.New()
	if err != nil {
		return err
	}
	exp := export.New(export.Config{
		Renderer: r,
		Avatars:  avatar.NewLoader(cfg.AvatarTimeout, logger),
		Profile:  profile.Get(profName),
		Logger:   logger,
	})

	var saved string
	sink := export.DownloaderFunc(func(ctx context.Context, a *export.Artifact) (string, error) {
		path, err := export.DirDownloader{Dir: absOut}.Deliver(ctx, a)
		saved = path
		return path, err
	})

	// A failed export is reported in the log only, matching the editor.
	a := exp.Trigger(ctx, store.Snapshot(), sink)
	if a == nil {
		return nil
	}
	printRenderReport(a, saved, exp.Profile(), time.Since(start))
	return nil
}

// uploadAvatarFile behaves like the editor's file picker: an unreadable or
// non-image file leaves the avatar untouched.
func uploadAvatarFile(store *state.Store, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("avatar file ignored", zap.String("file", path), zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := store.UploadAvatar(f, filepath.Base(path)); err != nil {
		logger.Warn("avatar file ignored", zap.String("file", path), zap.Error(err))
	}
}

func printRenderReport(a *export.Artifact, path string, prof profile.Profile, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            tweetshot render complete             ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  File:        %s\n", path)
	fmt.Printf("  Profile:     %s (%gx %s)\n", prof.Name, prof.Scale, a.Format)
	fmt.Printf("  Size:        %dx%d px\n", a.Width, a.Height)
	fmt.Printf("  Bytes:       %s\n", formatBytes(int64(len(a.Data))))
	fmt.Printf("  Hash:        %s\n", a.Hash)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()
}
