package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-transcript-harvester/internal/channels"
	"yt-transcript-harvester/internal/model"
	"yt-transcript-harvester/internal/ytdlp"
)

type listResult struct {
	SourceURL string           `json:"source_url"`
	Total     int              `json:"total"`
	Videos    []model.VideoRef `json:"videos"`
}

// runList enumerates a channel without fetching any captions.
func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	source := fs.String("source", "", "channel URL")
	channel := fs.String("channel", "", "configured channel name")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := strings.TrimSpace(*source)
	if src == "" && fs.NArg() > 0 {
		src = strings.TrimSpace(fs.Arg(0))
	}
	if src == "" && strings.TrimSpace(*channel) != "" {
		c, err := channels.FindChannel(strings.TrimSpace(*config), strings.TrimSpace(*channel))
		if err != nil {
			return err
		}
		src = c.SourceURL
	}
	if src == "" {
		return errors.New("list requires a channel URL or --channel")
	}

	if err := ytdlp.CheckDependencies(); err != nil {
		return err
	}
	videos, err := ytdlp.Client{}.ListChannel(context.Background(), src)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(listResult{SourceURL: src, Total: len(videos), Videos: videos})
	}

	fmt.Printf("source: %s\n", src)
	fmt.Printf("videos: %d\n", len(videos))
	for _, v := range videos {
		fmt.Printf("- %s  %s\n", v.ID, v.Title)
	}
	return nil
}
