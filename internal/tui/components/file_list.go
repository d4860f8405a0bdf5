package components

import (
	"fmt"
	"os"
	"strings"

	"textdrop/internal/tui/common"
	"textdrop/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// FileList renders the items of the most recent drop
type FileList struct {
	files []common.FileEntry
}

func NewFileList() *FileList {
	return &FileList{}
}

func (fl *FileList) SetFiles(files []common.FileEntry) {
	fl.files = files
}

func (fl *FileList) Files() []common.FileEntry {
	return fl.files
}

func (fl *FileList) View() string {
	if len(fl.files) == 0 {
		return ""
	}

	var s strings.Builder
	s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("Dropped %d item(s):", len(fl.files))) + "\n")

	for i, file := range fl.files {
		details := ""
		if path, ok := file.Address.Path(); ok {
			if info, err := os.Stat(path); err == nil {
				details = fmt.Sprintf(" %8s  %s",
					humanize.Bytes(uint64(info.Size())),
					humanize.Time(info.ModTime()))
			}
		}

		s.WriteString(fmt.Sprintf("%2d %s%s\n",
			i+1,
			styles.Theme.Selected.Render(file.Name),
			styles.Theme.Muted.Render(details)))
	}

	return s.String()
}
