package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recomp/internal/core/domain"
)

func TestComponentRegistry_RegisterResolve(t *testing.T) {
	r := domain.NewComponentRegistry()

	prev, replaced := r.Register("Card", "a.ui")
	assert.False(t, replaced)
	assert.Empty(t, prev)

	owner, ok := r.Resolve("Card")
	require.True(t, ok)
	assert.Equal(t, "a.ui", owner)

	_, ok = r.Resolve("Button")
	assert.False(t, ok)
}

func TestComponentRegistry_LastWriteWins(t *testing.T) {
	r := domain.NewComponentRegistry()
	r.Register("Card", "a.ui")

	prev, replaced := r.Register("Card", "z.ui")
	assert.True(t, replaced)
	assert.Equal(t, "a.ui", prev)

	owner, _ := r.Resolve("Card")
	assert.Equal(t, "z.ui", owner)
	assert.Equal(t, 1, r.Len())

	// Re-registering from the same owner is not a replacement.
	_, replaced = r.Register("Card", "z.ui")
	assert.False(t, replaced)
}

func TestComponentRegistry_ResolveAll(t *testing.T) {
	r := domain.NewComponentRegistry()
	r.Register("Card", "a.ui")
	r.Register("Button", "b.ui")

	got := r.ResolveAll([]string{"Card", "Text", "Button"})
	assert.Equal(t, map[string]string{"Card": "a.ui", "Button": "b.ui"}, got)

	r.Clear()
	assert.Empty(t, r.ResolveAll([]string{"Card"}))
	assert.Equal(t, 0, r.Len())
}
