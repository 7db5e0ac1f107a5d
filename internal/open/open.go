package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/file-sequencer/internal/parse"
)

// FindRevision returns the record whose revision id is id, or the single
// record whose id starts with it when none matches exactly. An id held by
// several files is ambiguous.
func FindRevision(records []parse.Record, id string) (parse.Record, error) {
	var exact []parse.Record
	for _, r := range records {
		if r.RevisionID == id {
			exact = append(exact, r)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		paths := make([]string, len(exact))
		for i, r := range exact {
			paths[i] = r.Path
		}
		return parse.Record{}, fmt.Errorf("revision %s is ambiguous: held by %s", id, strings.Join(paths, ", "))
	}

	var matches []parse.Record
	for _, r := range records {
		if strings.HasPrefix(r.RevisionID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return parse.Record{}, fmt.Errorf("revision not found: %s", id)
	case 1:
		return matches[0], nil
	default:
		return parse.Record{}, fmt.Errorf("revision prefix %s is ambiguous (%d matches)", id, len(matches))
	}
}

// OpenFile opens path in $EDITOR (less when unset) at lineNum.
func OpenFile(path string, lineNum int) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	if lineNum < 1 {
		lineNum = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	cmd := editorCommand(editor, path, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}
