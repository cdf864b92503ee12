package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	writeBody  string
	createBody string
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Print a file's contents",
	Long: `Print a file's contents.

With --json the result is {"ok": bool, "content": string}, where content is
the error text when the file cannot be read.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Replace a file's contents",
	Long: `Replace a file's contents with --body, or with stdin when --body is not
given. The parent directory must exist.`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Create a file unless it already exists",
	Long: `Create a file with --body (or stdin) as its contents. An existing file is
left untouched and the command fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	writeCmd.Flags().StringVarP(&writeBody, "body", "b", "", "Contents to write (default: read stdin)")
	createCmd.Flags().StringVarP(&createBody, "body", "b", "", "Contents to write (default: read stdin)")
}

func runRead(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}

	res := a.engine.Read(args[0])
	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, res)
	}
	if !res.OK {
		return errors.New(res.Content)
	}
	fmt.Fprint(out, res.Content)
	return nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	body, err := readBody(cmd, writeBody)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}

	ok := a.engine.Write(args[0], body)
	return reportBool(cmd, ok, fmt.Sprintf("Wrote %s", args[0]), fmt.Sprintf("failed to write %s", args[0]))
}

func runCreate(cmd *cobra.Command, args []string) error {
	body, err := readBody(cmd, createBody)
	if err != nil {
		return err
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}

	ok := a.engine.CreateIfAbsent(args[0], body)
	return reportBool(cmd, ok, fmt.Sprintf("Created %s", args[0]), fmt.Sprintf("%s was not created (it may already exist)", args[0]))
}

// reportBool prints the boolean result of a file command.
func reportBool(cmd *cobra.Command, ok bool, success, failure string) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := outputJSON(out, map[string]bool{"ok": ok}); err != nil {
			return err
		}
	} else if ok {
		PrintSuccess(out, success)
	}
	if !ok {
		return errors.New(failure)
	}
	return nil
}
