package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerStartsAtStepStart(t *testing.T) {
	m := NewManager()
	assert.Equal(t, StepStart, m.Step(1))
	assert.Equal(t, Draft{}, m.Get(1))
}

func TestManagerUpdateCreatesAndKeepsDraft(t *testing.T) {
	m := NewManager()

	m.Update(1, func(d *Draft) {
		d.Step = StepOfferTitle
		d.OfferDate = 1709571600
	})

	assert.Equal(t, StepOfferTitle, m.Step(1))
	assert.Equal(t, int64(1709571600), m.Get(1).OfferDate)
	assert.Equal(t, StepStart, m.Step(2), "chats are independent")
}

func TestManagerGetReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Update(1, func(d *Draft) {
		d.Step = StepOfferTitle
		d.Title = "Rückenfit"
	})

	draft := m.Get(1)
	draft.Title = "changed locally"
	assert.Equal(t, "Rückenfit", m.Get(1).Title)
}

func TestManagerUpdateDropsDraftBackAtStart(t *testing.T) {
	m := NewManager()
	m.Update(1, func(d *Draft) {
		d.Step = StepOfferConfirm
		d.Title = "Rückenfit"
	})

	m.Update(1, func(d *Draft) { d.Step = StepStart })

	assert.Equal(t, StepStart, m.Step(1))
	assert.Empty(t, m.Get(1).Title, "scratch data does not leak into the next flow")
}

func TestManagerReset(t *testing.T) {
	m := NewManager()
	m.Update(1, func(d *Draft) { d.Step = StepJoinPick })

	m.Reset(1)
	assert.Equal(t, StepStart, m.Step(1))
}
