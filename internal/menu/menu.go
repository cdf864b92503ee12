// Package menu defines the editor's File menu as a closed set of items.
//
// The backend dispatches on Item values only; string identifiers exist for
// the wire (frontend requests, CLI arguments) and are converted with Parse at
// the edge.
package menu

import "fmt"

// Item is a File menu entry.
type Item int

const (
	NewMap Item = iota + 1
	OpenWorkspace
	OpenFile
	Save
	Export
)

type itemInfo struct {
	id          string
	label       string
	accelerator string
}

var items = map[Item]itemInfo{
	NewMap:        {id: "newmap", label: "New Map", accelerator: "CmdOrCtrl+M"},
	OpenWorkspace: {id: "openworkspace", label: "Open Workspace...", accelerator: "CmdOrCtrl+Shift+O"},
	OpenFile:      {id: "openfile", label: "Open...", accelerator: "CmdOrCtrl+O"},
	Save:          {id: "save", label: "Save", accelerator: "CmdOrCtrl+S"},
	Export:        {id: "export", label: "Export", accelerator: "CmdOrCtrl+E"},
}

// All returns every item in menu order.
func All() []Item {
	return []Item{NewMap, OpenWorkspace, OpenFile, Save, Export}
}

// Valid reports whether i is one of the defined items.
func (i Item) Valid() bool {
	_, ok := items[i]
	return ok
}

// ID returns the wire identifier.
func (i Item) ID() string {
	return items[i].id
}

// Label returns the display label.
func (i Item) Label() string {
	return items[i].label
}

// Accelerator returns the keyboard shortcut in CmdOrCtrl notation.
func (i Item) Accelerator() string {
	return items[i].accelerator
}

func (i Item) String() string {
	if !i.Valid() {
		return fmt.Sprintf("menu.Item(%d)", int(i))
	}
	return i.ID()
}

// Parse converts a wire identifier into an Item.
func Parse(id string) (Item, error) {
	for _, item := range All() {
		if item.ID() == id {
			return item, nil
		}
	}
	return 0, fmt.Errorf("unknown menu item %q", id)
}

// Entry is the serializable form of an Item for rendering by the frontend.
type Entry struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Accelerator string `json:"accelerator" yaml:"accelerator"`
}

// Entries returns the menu in display order.
func Entries() []Entry {
	all := All()
	out := make([]Entry, 0, len(all))
	for _, item := range all {
		out = append(out, Entry{ID: item.ID(), Label: item.Label(), Accelerator: item.Accelerator()})
	}
	return out
}
