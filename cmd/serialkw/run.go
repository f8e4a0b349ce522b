package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/benchrig/serialkw"
)

var runCmd = &cobra.Command{
	Use:   "run <table-file>",
	Short: "Execute a keyword table",
	Long: `Execute a pipe-separated keyword table, one step per line:

  | Add Port            | loop://     |
  | Set Encoding        | ascii       |
  | Write Data          | Hello World |
  | Read Data Should Be | Hello World |

Empty lines and lines starting with # are skipped. Keyword failures are
reported and the run continues; transport errors abort the run. The exit
code is the number of failed steps.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		log := newLogger()
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		defer lib.DeleteAllPorts()

		var passed, failed, lineNo int
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lineNo++
			keyword, kwArgs, ok := parseTableLine(scanner.Text())
			if !ok {
				continue
			}
			result, err := lib.RunKeyword(keyword, kwArgs...)
			switch {
			case err == nil:
				passed++
				ev := log.Info().Int("line", lineNo).Str("keyword", keyword)
				if s, isStr := result.(string); isStr && s != "" {
					ev = ev.Str("result", s)
				}
				ev.Msg("PASS")
			case serialkw.IsFailure(err):
				failed++
				log.Error().Int("line", lineNo).Str("keyword", keyword).Msg("FAIL: " + err.Error())
			default:
				// transport error: not a test failure, abort the run
				return fmt.Errorf("line %d: %s: %w", lineNo, keyword, err)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		log.Info().Int("passed", passed).Int("failed", failed).Msg("run complete")
		if failed > 0 {
			os.Exit(failed)
		}
		return nil
	},
}

// parseTableLine splits one table row into keyword and arguments. Cells are
// separated by pipes; a missing leading pipe is tolerated.
func parseTableLine(line string) (string, []string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil, false
	}
	line = strings.Trim(line, "|")
	cells := strings.Split(line, "|")
	var cleaned []string
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cleaned = append(cleaned, cell)
		}
	}
	if len(cleaned) == 0 {
		return "", nil, false
	}
	return cleaned[0], cleaned[1:], true
}

func init() {
	rootCmd.AddCommand(runCmd)
}
