package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumio-labs/volumio-api/internal/models"
)

func interaction(n int) models.Interaction {
	return models.Interaction{
		Type:  "text",
		Input: fmt.Sprintf("input %d", n),
	}
}

func TestLogKeepsLastN(t *testing.T) {
	l := NewLog(5)
	for i := 1; i <= 8; i++ {
		l.Append(interaction(i))
	}

	recent := l.Recent()
	require.Len(t, recent, 5)
	assert.Equal(t, "input 4", recent[0].Input)
	assert.Equal(t, "input 8", recent[4].Input)
}

func TestLogUnderLimit(t *testing.T) {
	l := NewLog(5)
	l.Append(interaction(1))
	l.Append(interaction(2))

	recent := l.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "input 1", recent[0].Input)
}

func TestLogRecentReturnsCopy(t *testing.T) {
	l := NewLog(5)
	l.Append(interaction(1))

	recent := l.Recent()
	recent[0].Input = "tampered"

	assert.Equal(t, "input 1", l.Recent()[0].Input)
}

func TestNewLogDefaultsLimit(t *testing.T) {
	l := NewLog(0)
	for i := 1; i <= 10; i++ {
		l.Append(interaction(i))
	}
	assert.Equal(t, DefaultLimit, l.Len())
}

func TestStoreIsolatesSessions(t *testing.T) {
	store := NewStore(5)

	store.ForSession("alice").Append(interaction(1))
	store.ForSession("bob").Append(interaction(2))
	store.ForSession("alice").Append(interaction(3))

	assert.Equal(t, 2, store.ForSession("alice").Len())
	assert.Equal(t, 1, store.ForSession("bob").Len())
}

func TestStoreReturnsSameLogForSession(t *testing.T) {
	store := NewStore(5)
	assert.Same(t, store.ForSession("alice"), store.ForSession("alice"))
}
