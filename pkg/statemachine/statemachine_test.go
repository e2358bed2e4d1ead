package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/christiananese/hustle-starter/pkg/statemachine"
)

const (
	draft     = statemachine.StringState("draft")
	published = statemachine.StringState("published")
	archived  = statemachine.StringState("archived")
)

func TestMachine(t *testing.T) {
	t.Parallel()

	m := statemachine.New().
		Allow(draft, published).
		Allow(published, archived).
		Build()

	assert.True(t, m.Can(draft, published))
	assert.True(t, m.Can(published, archived))
	assert.False(t, m.Can(draft, archived))
	assert.False(t, m.Can(archived, published))
	assert.False(t, m.Can(archived, draft))
}

func TestMachineSelfTransition(t *testing.T) {
	t.Parallel()

	m := statemachine.New().Allow(draft, published).Build()

	assert.True(t, m.Can(draft, draft))
	assert.True(t, m.Can(archived, archived), "self-transition legal even for unregistered states")
}

func TestMachineAllowFromAny(t *testing.T) {
	t.Parallel()

	m := statemachine.New().
		Allow(draft, published).
		AllowFromAny(archived).
		Build()

	assert.True(t, m.Can(draft, archived))
	assert.True(t, m.Can(published, archived))
	assert.False(t, m.Can(archived, published), "terminal state stays terminal")
}

func TestStep(t *testing.T) {
	t.Parallel()

	m := statemachine.New().Allow(draft, published).Build()

	assert.NoError(t, m.Step(draft, published))

	err := m.Step(published, draft)
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	var terr *statemachine.TransitionError
	assert.ErrorAs(t, err, &terr)
	assert.Equal(t, "published", terr.From)
	assert.Equal(t, "draft", terr.To)
}
