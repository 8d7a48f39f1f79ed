package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"aovpack/internal/scanner"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "frames SOURCE_DIR",
		Short:       "List the frame numbers found in a source directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := scanner.ListFrames(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, frames)
			}
			if len(frames) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No AOV EXR files found")
				return nil
			}
			rows := make([][]string, 0, len(frames))
			for _, frame := range frames {
				rows = append(rows, []string{strconv.Itoa(frame), fmt.Sprintf("%04d", frame)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Frame", "Padded"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit frame numbers as JSON")
	return cmd
}

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "groups SOURCE_DIR",
		Short:       "List the AOV group names found in a source directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := scanner.ListGroups(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, groups)
			}
			if len(groups) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No AOV EXR files found")
				return nil
			}
			for _, group := range groups {
				fmt.Fprintln(cmd.OutOrStdout(), group)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit group names as JSON")
	return cmd
}
