package tidydl

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/tidydl/pkg/cobrax/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics installs the topic-aware help command on rootCmd
func initTopics(rootCmd *cobra.Command) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}

	opts := topics.Options{Renderer: topics.RendererFor(styledHelp())}
	if _, err := topics.Initialize(rootCmd, sub, opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	rootCmd.SetHelpCommandGroupID("misc")
}
