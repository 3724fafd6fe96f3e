package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-transcript-harvester/internal/channels"
)

func runAddChannel(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "channel name (optional; auto-generated from @handle)")
	source := fs.String("source", "", "channel URL (e.g. https://www.youtube.com/@channel/videos)")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	displayName := fs.String("channel-name", "", "display name used in file headers")
	outputDir := fs.String("output-dir", "", "channel output directory override")
	combinedFile := fs.String("combined-file", "", "combined archive path override")
	lang := fs.String("lang", "", "subtitle language preference override")
	active := fs.Bool("active", true, "include channel in --all-channels --active-only runs")
	replace := fs.Bool("replace", false, "replace channel if it already exists")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := strings.TrimSpace(*source)
	if src == "" && fs.NArg() > 0 {
		src = strings.TrimSpace(fs.Arg(0))
	}
	if src == "" {
		var err error
		src, err = promptRequired("channel URL")
		if err != nil {
			return err
		}
	}

	res, err := channels.AddChannel(channels.AddChannelOptions{
		ConfigPath:          strings.TrimSpace(*config),
		Name:                strings.TrimSpace(*name),
		SourceURL:           src,
		ChannelName:         strings.TrimSpace(*displayName),
		OutputDir:           strings.TrimSpace(*outputDir),
		CombinedFile:        strings.TrimSpace(*combinedFile),
		SubLang:             strings.TrimSpace(*lang),
		Active:              boolPtr(*active),
		ReplaceIfNameExists: *replace,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	action := "added"
	if !res.Created {
		action = "updated"
	}
	fmt.Printf("channel %s: %s\n", action, res.Channel.Name)
	fmt.Printf("source: %s\n", res.Channel.SourceURL)
	fmt.Printf("config: %s\n", strings.TrimSpace(*config))
	fmt.Printf("next: yt-transcript-harvester harvest --channel %s\n", res.Channel.Name)
	return nil
}

func runRemoveChannel(args []string) error {
	fs := flag.NewFlagSet("remove", flag.ContinueOnError)
	name := fs.String("name", "", "channel name")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	yes := fs.Bool("yes", false, "skip confirmation")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := strings.TrimSpace(*name)
	if target == "" && fs.NArg() > 0 {
		target = strings.TrimSpace(fs.Arg(0))
	}
	if target == "" {
		return errors.New("--name is required")
	}
	if !*yes {
		ok, err := promptConfirm(fmt.Sprintf("remove channel %q? [y/N] ", target))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}

	res, err := channels.RemoveChannel(channels.RemoveChannelOptions{
		ConfigPath: strings.TrimSpace(*config),
		Name:       target,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}
	fmt.Printf("removed channel: %s (%s)\n", res.Channel.Name, res.Channel.SourceURL)
	return nil
}

func runChannels(args []string) error {
	fs := flag.NewFlagSet("channels", flag.ContinueOnError)
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := channels.ListChannels(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("config: %s\n", res.ConfigPath)
	if len(res.Channels) == 0 {
		fmt.Println("no channels configured")
		fmt.Println("next: yt-transcript-harvester add --source <url>")
		return nil
	}
	for _, c := range res.Channels {
		activeMark := " "
		if channels.IsActive(c) {
			activeMark = "x"
		}
		fmt.Printf("- [%s] %s | %s\n", activeMark, c.Name, c.SourceURL)
	}
	return nil
}
