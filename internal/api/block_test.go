package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	s := NewSignal("GET request : dashboard").WithContent(200).Create()
	assert.Equal(t, "GET request : dashboard", s.Name)
	assert.Equal(t, 200, s.Content)
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.Time.IsZero())

	other := NewSignal("GET request : dashboard").Create()
	assert.NotEqual(t, s.ID, other.ID)

	assert.Equal(t, "id", NewSignal("x").WithID("id").Create().ID)
}

func TestBlock(t *testing.T) {
	block := NewBlock()
	done := make(chan Signal)
	go func() {
		action := <-block.Action
		block.ReAction <- action
		done <- action
	}()
	block.Action <- NewSignal("render").Create()
	reaction := <-block.ReAction
	assert.Equal(t, "render", reaction.Name)
	assert.Equal(t, reaction.ID, (<-done).ID)
}
