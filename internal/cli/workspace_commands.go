package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"yt-transcript-harvester/internal/channels"
)

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	outputRoot := fs.String("output-root", envOr("YTH_OUTPUT_ROOT", channels.DefaultOutputRoot), "root directory for channel output dirs")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := channels.InitWorkspace(channels.InitWorkspaceOptions{
		OutputRoot: strings.TrimSpace(*outputRoot),
		ConfigPath: strings.TrimSpace(*config),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	fmt.Println("workspace initialized")
	fmt.Printf("output_root: %s\n", res.OutputRoot)
	fmt.Printf("config: %s\n", res.ConfigPath)
	fmt.Printf("created_output_root: %t\n", res.CreatedOutputRoot)
	fmt.Printf("created_config: %t\n", res.CreatedConfig)
	fmt.Println("checks:")
	for _, c := range res.DoctorResult.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("  %s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.DoctorResult.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("next: yt-transcript-harvester add --source <url>")
	return nil
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	outputRoot := fs.String("output-root", envOr("YTH_OUTPUT_ROOT", channels.DefaultOutputRoot), "root directory for channel output dirs")
	config := fs.String("config", envOr("YTH_CONFIG", channels.DefaultConfigPath), "channel config path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := channels.Doctor(channels.DoctorOptions{
		OutputRoot: strings.TrimSpace(*outputRoot),
		ConfigPath: strings.TrimSpace(*config),
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(res)
	}

	for _, c := range res.Checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	fmt.Println("doctor: all checks passed")
	return nil
}
