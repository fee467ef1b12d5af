// Package engine implements the game rules: the board model, the card
// and ticket economy, the turn state machine and scoring.
//
// GameState is immutable from the caller's point of view. Every
// transition function validates the move, works on a deep clone and
// returns either the new state or an InvalidActionError with the old
// state unchanged. The package has no goroutines and no locks; one
// session actor owns each state.
package engine
