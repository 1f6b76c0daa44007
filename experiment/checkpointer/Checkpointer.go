// Package checkpointer implements checkpointing of models between
// training rounds
package checkpointer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Serializable is an object that can be saved to a file
type Serializable interface {
	Save(path string) error
}

// Checkpoint is a handle to a saved object
type Checkpoint struct {
	Round int
	Path  string
}

// String implements the fmt.Stringer interface
func (c Checkpoint) String() string {
	return fmt.Sprintf("round %d: %v", c.Round, c.Path)
}

// Checkpointer saves serializable objects once per training round
type Checkpointer interface {
	// Checkpoint saves the object as the checkpoint of round and
	// returns a handle to the checkpoint
	Checkpoint(round int, object Serializable) (Checkpoint, error)

	// Latest returns the most recent checkpoint, and false if no
	// checkpoint has been saved yet
	Latest() (Checkpoint, bool)
}

// slot implements a Checkpointer which saves every round to the same
// file, overwriting the previous round's checkpoint
type slot struct {
	path   string
	latest Checkpoint
	saved  bool
}

// NewSlot returns a Checkpointer which saves every round to the file
// <dir>/<task>_dagger_model.bin
func NewSlot(dir, task string) (Checkpointer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("newSlot: %v", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%v_dagger_model.bin", task))
	return &slot{path: path}, nil
}

// Checkpoint saves object to the slot's file
func (s *slot) Checkpoint(round int, object Serializable) (Checkpoint,
	error) {
	if err := object.Save(s.path); err != nil {
		return Checkpoint{}, fmt.Errorf("checkpoint: round %v: %v", round,
			err)
	}
	s.latest = Checkpoint{Round: round, Path: s.path}
	s.saved = true
	return s.latest, nil
}

// Latest returns the most recent checkpoint
func (s *slot) Latest() (Checkpoint, bool) {
	return s.latest, s.saved
}
