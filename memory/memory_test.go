package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Limit(t *testing.T) {
	for _, bad := range []int{0, -2, 3, 11} {
		_, err := New(bad)
		assert.Error(t, err, "limit %d", bad)
	}
	m, err := New(4)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Limit())
	assert.Equal(t, DefaultLimit, Default().Limit())
}

func TestMemory_Append(t *testing.T) {
	m := Default()
	m.Append("hi", "hello")

	assert.Equal(t, []Turn{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}, m.Turns())
}

func TestMemory_TrimKeepsMostRecent(t *testing.T) {
	m, err := New(6)
	require.NoError(t, err)

	for i := range 10 {
		m.Append(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		assert.LessOrEqual(t, m.Len(), 6)
	}

	assert.Equal(t, []Turn{
		{Role: RoleUser, Content: "q7"},
		{Role: RoleAssistant, Content: "a7"},
		{Role: RoleUser, Content: "q8"},
		{Role: RoleAssistant, Content: "a8"},
		{Role: RoleUser, Content: "q9"},
		{Role: RoleAssistant, Content: "a9"},
	}, m.Turns())
}

func TestMemory_TurnsIsACopy(t *testing.T) {
	m := Default()
	m.Append("q", "a")
	turns := m.Turns()
	turns[0].Content = "changed"
	assert.Equal(t, "q", m.Turns()[0].Content)
}

func TestMemory_Reset(t *testing.T) {
	m := Default()
	m.Append("q", "a")
	m.Reset()
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Turns())
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	m, err := New(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				m.Append(fmt.Sprintf("q%d-%d", i, j), "a")
			}
		}()
	}
	wg.Wait()

	turns := m.Turns()
	require.Len(t, turns, 8)
	for i, turn := range turns {
		if i%2 == 0 {
			assert.Equal(t, RoleUser, turn.Role)
		} else {
			assert.Equal(t, RoleAssistant, turn.Role)
		}
	}
}
