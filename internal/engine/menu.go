package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/rpgedit/internal/dialog"
	"github.com/danieljhkim/rpgedit/internal/events"
	"github.com/danieljhkim/rpgedit/internal/menu"
)

// HandleMenu runs the action bound to item. It is the single place menu
// selections are dispatched; the returned channel behaves as for
// OpenWorkspace.
func (e *Engine) HandleMenu(ctx context.Context, item menu.Item) <-chan Result {
	switch item {
	case menu.NewMap:
		return e.start(ctx, item.ID(), e.signal(item, events.ChannelNewMap))
	case menu.OpenWorkspace:
		return e.OpenWorkspace(ctx)
	case menu.OpenFile:
		return e.OpenJSONFile(ctx)
	case menu.Save:
		return e.start(ctx, item.ID(), e.signal(item, events.ChannelSave))
	case menu.Export:
		return e.start(ctx, item.ID(), e.signal(item, events.ChannelExport))
	default:
		return e.start(ctx, item.String(), func(context.Context) Result {
			return Result{Outcome: OutcomeCancelled, Err: fmt.Errorf("%w: %v", ErrUnknownMenuItem, item)}
		})
	}
}

// signal emits a bare notification; the frontend decides what to do with it.
func (e *Engine) signal(item menu.Item, channel events.Channel) func(context.Context) Result {
	return func(context.Context) Result {
		if err := e.emitter.Emit(channel, nil); err != nil {
			return e.fail(OutcomeEmitFailed, fmt.Errorf("%w: %w", ErrEmitFailed, err),
				e.messages.Format(dialog.KindSignalEmitFailed, item.Label(), err))
		}
		return Result{Outcome: OutcomeSuccess}
	}
}
