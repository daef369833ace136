// Package game implements the core Coup-style bluffing engine: the
// action/reaction/resolution state machine, challenge and block arbitration,
// and the entities they mutate (players, deck, claims, history).
//
// The main types are Game, the aggregate root owning all canonical state for
// one game, and Engine, which applies validated operations to a Game.
//
// # Basic usage
//
//	rng := randutil.New(42)
//	g := game.NewGame(gameid.Generate(), deck.New(rng), "p1", "Alice", game.Human, time.Now())
//	e := game.NewEngine(logger)
//	e.Join(g, "p2", "Bob", game.Agent)
//	e.DealInitialHands(g)
//	e.SubmitAction(g, "p1", game.Tax, "")
//	e.SubmitChallenge(g, "p2")
//	e.Resolve(g)
//
// # Determinism
//
// All randomness flows through the deck's injected RNG and all time through
// the engine's injected quartz clock, so complete games replay byte-for-byte
// from a seed. Tests drive the reaction window with a quartz mock clock.
//
// # Error discipline
//
// Operations either fully succeed or leave the Game untouched. Validation
// failures come back as the sentinel errors in errors.go; impossible states
// surface as InvariantError and must not be retried.
package game
