package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Harshitk-cp/helios/internal/domain"
	"github.com/Harshitk-cp/helios/internal/service"
	"github.com/spf13/cobra"
)

func newChatCmd(c *cli) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "chat <npc_id> [message...]",
		Short: "Talk to a character; without a message, read one turn per line from stdin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			npcID := args[0]
			if len(args) > 1 {
				return c.chatTurn(cmd, npcID, session, strings.Join(args[1:], " "))
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if err := c.chatTurn(cmd, npcID, session, line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "cli", "Session id")
	return cmd
}

func (c *cli) chatTurn(cmd *cobra.Command, npcID, session, message string) error {
	ctx, cancel := c.context(cmd)
	defer cancel()

	res, err := c.core.Dialogue.Converse(ctx, service.ConverseInput{
		CharacterID: npcID,
		SessionID:   session,
		Message:     message,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.jsonOut {
		return c.printJSON(out, res)
	}
	line := fmt.Sprintf("%s [%s]: %s", res.CharacterName, res.Reply.Emotion, res.Reply.Message)
	if res.Reply.Action != "" {
		line += fmt.Sprintf(" *%s*", res.Reply.Action)
	}
	if !res.Outcome.IsOK() {
		line += fmt.Sprintf("  (%s)", res.Outcome.Reason)
	}
	_, err = fmt.Fprintln(out, line)
	return err
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	var logsPath string

	cmd := &cobra.Command{
		Use:   "analyze <character_id>",
		Short: "Derive a belief document from a JSON behavior log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			var logs []domain.BehaviorLog
			if logsPath != "" {
				data, err := os.ReadFile(logsPath)
				if err != nil {
					return fmt.Errorf("read behavior logs: %w", err)
				}
				if err := json.Unmarshal(data, &logs); err != nil {
					return fmt.Errorf("decode behavior logs: %w", err)
				}
			}

			analysis, err := c.core.Analyzer.Analyze(ctx, args[0], logs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return c.printJSON(out, analysis)
			}
			if !analysis.Outcome.IsOK() {
				fmt.Fprintf(out, "# %s: %s\n", analysis.Outcome.Status, analysis.Outcome.Reason)
			}
			_, err = fmt.Fprint(out, analysis.Document.YAML())
			return err
		},
	}
	cmd.Flags().StringVarP(&logsPath, "logs", "l", "", "Path to a JSON array of behavior logs")
	return cmd
}

func newEchoCmd(c *cli) *cobra.Command {
	var session, player string

	cmd := &cobra.Command{
		Use:   "echo <confusion...>",
		Short: "Explain a player's confusion in their own voice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			res, err := c.core.Echo.Echo(ctx, session, player, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return c.printJSON(out, res)
			}
			fmt.Fprintln(out, res.SubjectiveAttribution)
			for _, e := range res.MemoryEvidence {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			_, err = fmt.Fprintf(out, "Insight: %s\n", res.BeliefInsight)
			return err
		},
	}
	cmd.Flags().StringVarP(&session, "session", "s", "cli", "Session id")
	cmd.Flags().StringVarP(&player, "player", "p", "player", "Player id whose beliefs are used")
	return cmd
}

func newCharactersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List the character roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			chars, err := c.core.Dialogue.Characters(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if c.jsonOut {
				return c.printJSON(out, chars)
			}
			for _, ch := range chars {
				fmt.Fprintf(out, "%-10s %-10s %s\n", ch.ID, ch.Name, ch.Role)
			}
			return nil
		},
	}
}
