package checkpointer

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileEnumerator enumerates filenames
type fileEnumerator struct {
	name      string
	extension string
}

// filename returns the name of the file for round i
func (f fileEnumerator) filename(i int) string {
	return fmt.Sprintf("%v%v%v", f.name, i, f.extension)
}

// FilenameEnumerator returns a function which returns filenames with
// an integer suffix. The filename parameter is the full filename with
// its path, while the extension parameter determines the file
// extension.
func FilenameEnumerator(filename, extension string) func(int) string {
	enum := fileEnumerator{name: filename, extension: extension}
	return enum.filename
}

// enumerated implements a Checkpointer which saves each round to its
// own file, so that earlier rounds are never overwritten
type enumerated struct {
	filename func(int) string
	history  []Checkpoint
}

// NewEnumerated returns a Checkpointer which saves round r to the file
// <dir>/<task>_dagger_model_round<r>.bin
func NewEnumerated(dir, task string) (Checkpointer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("newEnumerated: %v", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%v_dagger_model_round", task))
	return &enumerated{filename: FilenameEnumerator(name, ".bin")}, nil
}

// Checkpoint saves object to the file for round
func (e *enumerated) Checkpoint(round int, object Serializable) (Checkpoint,
	error) {
	path := e.filename(round)
	if err := object.Save(path); err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: round %v: %v", round,
			err)
	}
	c := Checkpoint{Round: round, Path: path}
	e.history = append(e.history, c)
	return c, nil
}

// Latest returns the most recent checkpoint
func (e *enumerated) Latest() (Checkpoint, bool) {
	if len(e.history) == 0 {
		return Checkpoint{}, false
	}
	return e.history[len(e.history)-1], true
}
