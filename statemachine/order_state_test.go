package statemachine

import (
	"errors"
	"testing"

	"bakery-pos-api/apperrors"
	"bakery-pos-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  models.OrderStatus
		to    models.OrderStatus
		legal bool
	}{
		{"payment settles order", models.StatusPending, models.StatusReady, true},
		{"unpaid order can be cancelled", models.StatusPending, models.StatusCancelled, true},
		{"ready order gets delivered", models.StatusReady, models.StatusDelivered, true},
		{"cannot skip payment", models.StatusPending, models.StatusDelivered, false},
		{"cannot cancel after payment", models.StatusReady, models.StatusCancelled, false},
		{"delivered is terminal", models.StatusDelivered, models.StatusReady, false},
		{"delivered cannot be cancelled", models.StatusDelivered, models.StatusCancelled, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusPending, false},
		{"cancelled cannot be paid", models.StatusCancelled, models.StatusReady, false},
		{"no self transition", models.StatusReady, models.StatusReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.legal {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var invalidState *apperrors.InvalidStateError
			require.True(t, errors.As(err, &invalidState))
			assert.Equal(t, string(tt.from), invalidState.Current)
		})
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusReady, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusDelivered},
		ValidTransitionsFrom(models.StatusReady))
	assert.Empty(t, ValidTransitionsFrom(models.StatusDelivered))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
}

func TestTerminalStateErrorMessage(t *testing.T) {
	err := CanTransition(models.StatusDelivered, models.StatusReady)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal state")
}
