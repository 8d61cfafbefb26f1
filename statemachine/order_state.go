package statemachine

import (
	"bakery-pos-api/apperrors"
	"bakery-pos-api/models"
)

// Transition defines a valid state change
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Successful payment settles the order into the ready queue
	{From: models.StatusPending, To: models.StatusReady},
	// An unpaid order can still be cancelled (no stock was committed)
	{From: models.StatusPending, To: models.StatusCancelled},
	// Counter staff hands the order over
	{From: models.StatusReady, To: models.StatusDelivered},
	// DELIVERED and CANCELLED are terminal
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether an order may move from one state to another
func CanTransition(from, to models.OrderStatus) error {
	if transitionMap[transitionKey{From: from, To: to}] {
		return nil
	}
	valid := ValidTransitionsFrom(from)
	names := make([]string, len(valid))
	for i, s := range valid {
		names[i] = string(s)
	}
	return apperrors.InvalidState(
		"invalid transition: "+string(from)+" -> "+string(to)+
			" is not allowed. Valid transitions from "+string(from)+" are: "+describeValidFrom(from),
		string(from), names...)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
