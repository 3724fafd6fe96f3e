package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "harvest":
		return runHarvest(args[1:])
	case "list":
		return runList(args[1:])
	case "add":
		return runAddChannel(args[1:])
	case "remove":
		return runRemoveChannel(args[1:])
	case "channels":
		return runChannels(args[1:])
	case "status":
		return runStatus(args[1:])
	case "settings":
		return runSettings(args[1:])
	case "manage":
		return runManage(args[1:])
	case "init":
		return runInit(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-transcript-harvester: bulk YouTube channel transcript harvester")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-transcript-harvester init")
	fmt.Println("  yt-transcript-harvester harvest https://www.youtube.com/@channel/videos")
	fmt.Println("  yt-transcript-harvester add --source <url> [--name <channel>]")
	fmt.Println("  yt-transcript-harvester harvest --all-channels")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  harvest   download + normalize transcripts for a channel URL or configured channel(s)")
	fmt.Println("  list      enumerate channel videos without downloading anything")
	fmt.Println("  add       add/update a channel in config")
	fmt.Println("  remove    remove a channel from config")
	fmt.Println("  channels  list configured channels")
	fmt.Println("  status    manifest rollup for configured channel(s)")
	fmt.Println("  settings  show/update global runtime settings")
	fmt.Println("  manage    interactive channel manager (wizard + editor)")
	fmt.Println("  init      create workspace config + run environment checks")
	fmt.Println("  doctor    run dependency and filesystem preflight checks")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Per-video failures never abort a harvest; check the run manifest")
}
