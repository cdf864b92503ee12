package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/history"
	"github.com/danieljhkim/rpgedit/internal/picker"
	"github.com/danieljhkim/rpgedit/internal/workspace"
)

const (
	opOpenWorkspace = "open_workspace"
	opOpenJSONFile  = "open_json_file"
)

// OpenWorkspace asks for a folder, resolves its manifest and emits
// open_workspace. The flow runs on its own goroutine; the returned channel
// yields exactly one Result and is then closed.
func (e *Engine) OpenWorkspace(ctx context.Context) <-chan Result {
	return e.start(ctx, opOpenWorkspace, e.openWorkspace)
}

// OpenJSONFile asks for a JSON file, reads it verbatim and emits
// open_json_file. See OpenWorkspace for the delivery contract.
func (e *Engine) OpenJSONFile(ctx context.Context) <-chan Result {
	return e.start(ctx, opOpenJSONFile, e.openJSONFile)
}

// start runs flow asynchronously and delivers its result on a buffered
// channel, so an abandoned receiver never leaks the goroutine.
func (e *Engine) start(ctx context.Context, op string, flow func(context.Context) Result) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		res := flow(ctx)
		res.Op = op
		e.logResult(res)
		ch <- res
	}()
	return ch
}

func (e *Engine) openWorkspace(ctx context.Context) Result {
	// 1. Folder picker (the only suspension point)
	sel, err := e.picker.PickFolder(ctx)
	if res, stop := e.checkSelection(sel, err); stop {
		return res
	}

	// 2. Resolve manifest or default body
	doc, err := e.resolver.Resolve(sel.Path)
	if err != nil {
		var (
			pathErr *workspace.PathError
			readErr *workspace.ReadError
		)
		switch {
		case errors.As(err, &pathErr):
			return e.fail(OutcomePathInvalid, err, e.messages.Format(dialog.KindFolderMissing, sel.Path, pathErr.Err))
		case errors.Is(err, ErrPathInvalid):
			return e.fail(OutcomePathInvalid, err, e.messages.Format(dialog.KindFolderMissing, sel.Path, err))
		case errors.As(err, &readErr):
			return e.fail(OutcomeReadFailed, err, e.messages.Format(dialog.KindReadFailed, readErr.Path, readErr.Err))
		default:
			return e.fail(OutcomeReadFailed, err, e.messages.Format(dialog.KindReadFailed, workspace.ManifestPath(sel.Path), err))
		}
	}

	// 3. Hand the document to the frontend
	payload := OpenPayload{Path: doc.Path, Body: doc.Body}
	if err := e.emitter.Emit(events.ChannelOpenWorkspace, payload); err != nil {
		return e.fail(OutcomeEmitFailed, fmt.Errorf("%w: %w", ErrEmitFailed, err),
			e.messages.Format(dialog.KindWorkspaceEmitFailed, doc.Path, err))
	}

	e.remember(history.KindWorkspace, doc.Path)
	return Result{Outcome: OutcomeSuccess, Payload: &payload}
}

func (e *Engine) openJSONFile(ctx context.Context) Result {
	// 1. File picker limited to JSON
	sel, err := e.picker.PickFile(ctx, picker.JSONFilter)
	if res, stop := e.checkSelection(sel, err); stop {
		return res
	}

	// 2. Selection must still be a regular file
	if err := fsops.CheckRegular(e.fs, sel.Path); err != nil {
		return e.fail(OutcomePathInvalid, &workspace.PathError{Path: sel.Path, Err: err},
			e.messages.Format(dialog.KindFileMissing, sel.Path, err))
	}

	// 3. Read verbatim; bytes that are not UTF-8 are a read failure
	body, err := fsops.ReadText(e.fs, sel.Path)
	if err != nil {
		return e.fail(OutcomeReadFailed, &workspace.ReadError{Path: sel.Path, Err: err},
			e.messages.Format(dialog.KindReadFailed, sel.Path, err))
	}

	// 4. Hand the document to the frontend
	payload := OpenPayload{Path: sel.Path, Body: body}
	if err := e.emitter.Emit(events.ChannelOpenJSONFile, payload); err != nil {
		return e.fail(OutcomeEmitFailed, fmt.Errorf("%w: %w", ErrEmitFailed, err),
			e.messages.Format(dialog.KindFileEmitFailed, sel.Path, err))
	}

	e.remember(history.KindFile, sel.Path)
	return Result{Outcome: OutcomeSuccess, Payload: &payload}
}

// checkSelection ends the flow silently when nothing was picked. A picker
// that fails to show at all is logged but not reported: the dialog
// subsystem that would carry the report is the one that just failed.
func (e *Engine) checkSelection(sel picker.Selection, err error) (Result, bool) {
	if err != nil {
		e.logger.Error("picker failed", slog.String("error", err.Error()))
		return Result{Outcome: OutcomeCancelled, Err: err}, true
	}
	if !sel.Picked {
		return Result{Outcome: OutcomeCancelled}, true
	}
	return Result{}, false
}

// fail reports msg to the user and builds the terminal Result.
func (e *Engine) fail(outcome Outcome, err error, msg string) Result {
	e.reporter.Report(msg)
	return Result{Outcome: outcome, Err: err, Message: msg}
}

func (e *Engine) remember(kind history.Kind, path string) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(kind, path, e.clock.Now()); err != nil {
		e.logger.Warn("failed to record history",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

func (e *Engine) logResult(res Result) {
	attrs := []any{
		slog.String("op", res.Op),
		slog.String("outcome", res.Outcome.String()),
	}
	if res.Payload != nil {
		attrs = append(attrs, slog.String("path", res.Payload.Path), slog.Int("bytes", len(res.Payload.Body)))
	}
	switch {
	case res.Outcome == OutcomeSuccess || (res.Outcome == OutcomeCancelled && res.Err == nil):
		e.logger.Info("flow finished", attrs...)
	default:
		if res.Err != nil {
			attrs = append(attrs, slog.String("error", res.Err.Error()))
		}
		e.logger.Warn("flow failed", attrs...)
	}
}
