package cli

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/engine"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/picker"
)

var openPath string

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open a workspace or JSON file",
	Long: `Open a workspace folder or a JSON file the way the editor menu does.

Without --path a picker is shown (native dialog or terminal browser,
depending on dialog.backend). The emitted event is printed.`,
}

var openWorkspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Pick a workspace folder and emit open_workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd, func(a *app) <-chan engine.Result {
			return a.engine.OpenWorkspace(contextOrBackground(cmd))
		})
	},
}

var openFileCmd = &cobra.Command{
	Use:   "file",
	Short: "Pick a JSON file and emit open_json_file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd, func(a *app) <-chan engine.Result {
			return a.engine.OpenJSONFile(contextOrBackground(cmd))
		})
	},
}

func init() {
	openCmd.PersistentFlags().StringVarP(&openPath, "path", "p", "", "Use this path instead of showing a picker")
	openCmd.AddCommand(openWorkspaceCmd)
	openCmd.AddCommand(openFileCmd)
}

// flowOutput is the JSON form of a finished flow.
type flowOutput struct {
	Op      string         `json:"op"`
	Outcome string         `json:"outcome"`
	Events  []events.Event `json:"events"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// runOpen runs an open flow; --path stands in for the picker.
func runOpen(cmd *cobra.Command, start func(*app) <-chan engine.Result) error {
	var pk picker.Picker
	if openPath != "" {
		pk = picker.Fixed{Selection: picker.Chose(openPath)}
	}
	a, err := newApp(cmd, pk)
	if err != nil {
		return err
	}
	return runFlow(cmd, a, start)
}

// runFlow runs one flow to completion and prints what it emitted.
func runFlow(cmd *cobra.Command, a *app, start func(*app) <-chan engine.Result) error {
	var (
		mu      sync.Mutex
		emitted []events.Event
	)
	unsub := a.bus.SubscribeAll(func(e events.Event) {
		mu.Lock()
		emitted = append(emitted, e)
		mu.Unlock()
	})
	defer unsub()

	res, ok := <-start(a)
	if !ok {
		return errors.New("flow ended without a result")
	}

	mu.Lock()
	got := append([]events.Event(nil), emitted...)
	mu.Unlock()

	out := cmd.OutOrStdout()
	if jsonOutput {
		o := flowOutput{Op: res.Op, Outcome: res.Outcome.String(), Events: got, Message: res.Message}
		if o.Events == nil {
			o.Events = []events.Event{}
		}
		if res.Err != nil {
			o.Error = res.Err.Error()
		}
		if err := outputJSON(out, o); err != nil {
			return err
		}
	} else {
		printFlow(cmd, res, got)
	}

	switch res.Outcome {
	case engine.OutcomeSuccess:
		return nil
	case engine.OutcomeCancelled:
		if res.Err != nil {
			return fmt.Errorf("picker failed: %w", res.Err)
		}
		return nil
	default:
		return fmt.Errorf("%s failed: %w", res.Op, res.Err)
	}
}

func printFlow(cmd *cobra.Command, res engine.Result, emitted []events.Event) {
	out := cmd.OutOrStdout()
	switch res.Outcome {
	case engine.OutcomeSuccess:
		if res.Payload != nil {
			PrintSuccess(out, fmt.Sprintf("Opened %s", res.Payload.Path))
		} else {
			PrintSuccess(out, fmt.Sprintf("Sent %s", res.Op))
		}
		for _, e := range emitted {
			PrintLabelValue(out, "Event", fmt.Sprintf("%s (%s)", e.Channel, e.ID))
		}
		if res.Payload != nil {
			PrintLabelValue(out, "Bytes", fmt.Sprintf("%d", len(res.Payload.Body)))
			fmt.Fprintln(out, res.Payload.Body)
		}
	case engine.OutcomeCancelled:
		if res.Err == nil {
			PrintWarning(out, "Cancelled")
		} else {
			PrintError(out, "Picker unavailable")
		}
	default:
		PrintError(out, fmt.Sprintf("%s ended with %s", res.Op, res.Outcome))
	}
}
