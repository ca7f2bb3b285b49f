package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/termfx/gold/core"
	"github.com/termfx/gold/internal/config"
	"github.com/termfx/gold/internal/linter"
	"github.com/termfx/gold/internal/rules"
)

func newRulesCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [dir]",
		Short: "List the rules and whether the configuration of dir enables them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return listRules(stdout, stderr, dir)
		},
	}
}

func listRules(w, stderr io.Writer, dir string) error {
	root, _, err := linter.FindModule(dir)
	if errors.Is(err, core.ErrNoModule) {
		root, err = dir, nil
	}
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	if notice := cfg.Notice(); notice != "" {
		fmt.Fprintln(stderr, notice)
	}

	for _, rule := range rules.Default().All() {
		state := "disabled"
		if cfg.IsEnabled(rule.ID()) {
			state = "enabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", rule.ID(), state, rule.Description())
	}
	return nil
}
