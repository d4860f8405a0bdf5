package common

import "textdrop/pkg/types"

type Mode int

const (
	Normal Mode = iota
	Command
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Hovering() bool
	Ambient() string
	DropZoneView() string
	FileListView() string
	StatusView() string
	ShowHelp() bool
	Mode() Mode
	CommandBuffer() string
}

// FileEntry is one item of the most recent drop
type FileEntry struct {
	Name    string
	Address types.Address
}
