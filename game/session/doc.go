// Package session hosts live games.
//
// Each game runs inside its own Room: a single goroutine owns the game
// state and processes every message in arrival order, so the rules
// engine never sees concurrent access. The Registry maps game ids to
// rooms, handles the connection handshake and prunes games nobody is
// connected to anymore.
//
// The transport layer attaches endpoints through Join, Reconnect and
// Observe and talks to the room only through the returned Client. State
// snapshots flow through single-slot mailboxes, so a slow connection
// receives the newest state instead of a backlog of intermediate ones;
// errors, chat and the game-end announcement are delivered in order.
package session
