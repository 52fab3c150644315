package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "tcodec").
		WithSynopsis("tcodec [opts] command [opts]").
		WithDescription("tcodec decodes and re-encodes JSON documents through type descriptors.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tcodecMain(cfg, cc, args)
		}).
		WithSubs(
			NormalizeCommand(cfg),
			CheckCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			TypesCommand(cfg))
}

func tcodecMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(os.Stderr, "gops agent failed: %v\n", err)
		} else {
			defer agent.Close()
		}
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// subCommand builds a sub command whose options come from the struct tags
// of cfg; *at is set to the command once it is created.
func subCommand[C any](cfg C, at **cli.Command, name, synopsis, desc string, run func(C, *cli.Context, []string) error, aliases ...string) *cli.Command {
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommandAt(at, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
	if len(aliases) != 0 {
		cmd = cmd.WithAliases(aliases...)
	}
	return cmd
}

func NormalizeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NormalizeConfig{MainConfig: mainCfg}
	return subCommand(cfg, &cfg.Normalize, "normalize",
		"normalize -s descriptors.yaml -t type [files]",
		"decode documents as a type and encode them again",
		normalize, "n", "norm")
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return subCommand(cfg, &cfg.Check, "check",
		"check -s descriptors.yaml",
		"build a codec for every descriptor and report unsatisfiable types",
		check)
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return subCommand(cfg, &cfg.Diff, "diff",
		"diff -s descriptors.yaml -t type [file]",
		"show how normalizing would change a document, exiting 1 when it would",
		diff)
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	return subCommand(cfg, &cfg.Patch, "patch",
		"patch -s descriptors.yaml -t type -p patch.json [-merge] [file]",
		"apply a JSON patch (RFC 6902) or merge patch (RFC 7386) and check the result decodes",
		patch)
}

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	return subCommand(cfg, &cfg.Types, "types",
		"types -s descriptors.yaml",
		"list descriptors and their discriminators",
		listTypes, "ls")
}
