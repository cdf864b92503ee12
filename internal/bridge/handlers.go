package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danieljhkim/rpgedit/internal/engine"
	"github.com/danieljhkim/rpgedit/internal/menu"
)

// Backend is what the frontend can call.
type Backend interface {
	CreateIfAbsent(path, body string) bool
	Write(path, body string) bool
	Read(path string) engine.ReadResult
	HandleMenu(ctx context.Context, item menu.Item) <-chan engine.Result
}

// Register installs the file command and menu handlers backed by b.
func Register(s *Server, b Backend) {
	s.Handle(MethodCreateJSONFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		p, err := fileParams(raw)
		if err != nil {
			return nil, err
		}
		return b.CreateIfAbsent(p.Path, p.Body), nil
	})

	s.Handle(MethodSaveJSONFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		p, err := fileParams(raw)
		if err != nil {
			return nil, err
		}
		return b.Write(p.Path, p.Body), nil
	})

	s.Handle(MethodReadJSONFile, func(_ context.Context, raw json.RawMessage) (any, error) {
		p, err := fileParams(raw)
		if err != nil {
			return nil, err
		}
		return b.Read(p.Path), nil
	})

	s.Handle(MethodMenuSelect, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var p MenuParams
		if err := decode(raw, &p); err != nil {
			return nil, err
		}
		item, err := menu.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		// The flow outlives this request; its outcome is delivered as events.
		b.HandleMenu(context.WithoutCancel(ctx), item)
		return MenuAck{Accepted: true, ID: item.ID()}, nil
	})

	s.Handle(MethodMenuList, func(context.Context, json.RawMessage) (any, error) {
		return menu.Entries(), nil
	})
}

func fileParams(raw json.RawMessage) (FileParams, error) {
	var p FileParams
	if err := decode(raw, &p); err != nil {
		return p, err
	}
	if p.Path == "" {
		return p, fmt.Errorf("%w: path is required", ErrInvalidParams)
	}
	return p, nil
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidParams)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return nil
}
