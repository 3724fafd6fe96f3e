package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-transcript-harvester/internal/channels"
)

func runSettings(args []string) error {
	if len(args) == 0 {
		printSettingsUsage()
		return nil
	}
	switch args[0] {
	case "show":
		return runSettingsShow(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	case "help", "-h", "--help":
		printSettingsUsage()
		return nil
	default:
		printSettingsUsage()
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsShow(args []string) error {
	fs := flag.NewFlagSet("settings show", flag.ContinueOnError)
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	global, err := channels.ReadGlobalSettings(strings.TrimSpace(*config))
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(map[string]any{
			"config_path": strings.TrimSpace(*config),
			"global":      global,
		})
	}

	fmt.Printf("config: %s\n", strings.TrimSpace(*config))
	fmt.Printf("sub_lang: %s\n", global.SubLang)
	fmt.Printf("pause_every: %d\n", global.PauseEvery)
	fmt.Printf("pause_seconds: %d\n", global.PauseSeconds)
	fmt.Printf("output_root: %s\n", global.OutputRoot)
	return nil
}

func runSettingsSet(args []string) error {
	fs := flag.NewFlagSet("settings set", flag.ContinueOnError)
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	lang := fs.String("lang", "", "default subtitle language (empty keeps current)")
	pauseEvery := fs.Int("pause-every", -1, "pause after this many videos (>=1, -1 keeps current)")
	pauseSeconds := fs.Int("pause-seconds", -1, "pause duration in seconds (>=0, -1 keeps current)")
	outputRoot := fs.String("output-root", "", "root directory for channel output dirs (empty keeps current)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	configPath := strings.TrimSpace(*config)
	global, err := channels.ReadGlobalSettings(configPath)
	if err != nil {
		return err
	}

	if strings.TrimSpace(*lang) != "" {
		global.SubLang = strings.TrimSpace(*lang)
	}
	if *pauseEvery != -1 {
		if *pauseEvery <= 0 {
			return errors.New("--pause-every must be >= 1")
		}
		global.PauseEvery = *pauseEvery
	}
	if *pauseSeconds != -1 {
		if *pauseSeconds < 0 {
			return errors.New("--pause-seconds must be >= 0")
		}
		global.PauseSeconds = *pauseSeconds
	}
	if strings.TrimSpace(*outputRoot) != "" {
		global.OutputRoot = strings.TrimSpace(*outputRoot)
	}

	res, err := channels.UpdateGlobalSettings(channels.UpdateGlobalSettingsOptions{
		ConfigPath: configPath,
		Global:     global,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Printf("updated global settings in %s\n", res.ConfigPath)
	fmt.Printf("sub_lang: %s\n", res.Global.SubLang)
	fmt.Printf("pause_every: %d\n", res.Global.PauseEvery)
	fmt.Printf("pause_seconds: %d\n", res.Global.PauseSeconds)
	fmt.Printf("output_root: %s\n", res.Global.OutputRoot)
	return nil
}

func printSettingsUsage() {
	fmt.Println("settings commands:")
	fmt.Println("  settings show")
	fmt.Println("  settings set [--lang CODE] [--pause-every N] [--pause-seconds N] [--output-root DIR]")
}
