package api

import (
	"time"

	"github.com/google/uuid"
)

// Block allows 2 processes to sync
type Block struct {
	// Action block.Action <- api.Signal{}
	Action chan Signal
	// ReAction	<-block.ReAction
	ReAction chan Signal
}

func NewBlock() Block {
	return Block{
		Action:   make(chan Signal),
		ReAction: make(chan Signal),
	}
}

// Signal is a generic struct used to trigger actions on other processes.
type Signal struct {
	Name    string
	ID      string
	Content interface{}
	Time    time.Time
}

// NewSignal creates a new action with the given name.
func NewSignal(name string) *Signal {
	return &Signal{
		Name: name,
		Time: time.Now(),
		ID:   uuid.New().String(),
	}
}

// Create returns an immutable instance of the action
func (a *Signal) Create() Signal {
	return *a
}

// WithID assigns an id to the action
func (a *Signal) WithID(id string) *Signal {
	a.ID = id
	return a
}

// WithContent adds content to the action.
// The content should be decoded by using the name of the action.
func (a *Signal) WithContent(s interface{}) *Signal {
	a.Content = s
	return a
}
