/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xybyte/journalback/pkg/export"
	"github.com/xybyte/journalback/pkg/timespec"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "journalback [files...]",
	Short: "Read systemd journal export archives",
	Long: `journalback decodes journal export streams ("journalctl -o export")
from files or gzip archives and prints them like journalctl, with
unit and time-window filtering.

Example:
  journalback -u sshd.service --since yesterday backup.export.gz`,
	Args:         cobra.ArbitraryArgs,
	RunE:         runRoot,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("unit", "u", "", "Show logs from the specified unit")
	rootCmd.Flags().StringP("since", "S", "", "Show entries not older than the specified date")
	rootCmd.Flags().StringP("until", "U", "", "Show entries not newer than the specified date")
	rootCmd.Flags().IntP("lines", "n", 0, "Number of journal entries to show")
	rootCmd.Flags().StringP("output", "o", "",
		"Change journal output mode ("+strings.Join(export.Modes(), ", ")+")")
}

func runRoot(cmd *cobra.Command, args []string) error {
	filter, mode, err := buildQuery(cmd, time.Now())
	if err != nil {
		return err
	}
	if !mode.Implemented() {
		return fmt.Errorf("output mode %q not implemented", mode)
	}

	logger := newLogger("")
	defer func() { _ = logger.Sync() }()

	count := 0
	for _, path := range args {
		reader, err := export.Open(path, filter)
		if err != nil {
			logger.Error("cannot open export file", zap.String("file", path), zap.Error(err))
			continue
		}
		done, err := emitEntries(cmd.OutOrStdout(), reader, mode, filter.Lines, &count)
		reader.Close()
		if err != nil {
			// a closed downstream pipe is a normal way to stop
			if errors.Is(err, syscall.EPIPE) {
				return nil
			}
			logger.Error("decode failed", zap.String("file", path), zap.Error(err))
			continue
		}
		if done {
			return nil
		}
	}
	return nil
}

// buildQuery resolves the filter flags against now. Human-relative
// date expressions are resolved here; the decoder only sees absolute
// timestamps.
func buildQuery(cmd *cobra.Command, now time.Time) (*export.Filter, export.OutputMode, error) {
	flags := cmd.Flags()
	filter := &export.Filter{}

	filter.Unit, _ = flags.GetString("unit")
	if s, _ := flags.GetString("since"); s != "" {
		t, err := timespec.Parse(s, now)
		if err != nil {
			return nil, "", err
		}
		filter.Since = t
	}
	if s, _ := flags.GetString("until"); s != "" {
		t, err := timespec.Parse(s, now)
		if err != nil {
			return nil, "", err
		}
		filter.Until = t
	}
	filter.Lines, _ = flags.GetInt("lines")

	name, _ := flags.GetString("output")
	mode, err := export.ParseOutputMode(name)
	if err != nil {
		return nil, "", err
	}
	return filter, mode, nil
}

// emitEntries renders accepted entries to w until the reader is
// exhausted or the line limit is reached. count accumulates across
// files so the limit spans a multi-file invocation.
func emitEntries(w io.Writer, reader *export.Reader, mode export.OutputMode, limit int, count *int) (done bool, err error) {
	for reader.Next() {
		line, err := export.Render(reader.Entry(), mode)
		if err != nil {
			return false, err
		}
		if _, err := io.WriteString(w, line); err != nil {
			return false, err
		}
		*count++
		if limit > 0 && *count >= limit {
			return true, nil
		}
	}
	return false, reader.Err()
}
