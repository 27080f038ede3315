// Package session broadcasts the current session to session-scoped providers.
//
// A Mediator holds the authoritative current session and a weakly held list
// of subscriptions. UpdateSession notifies every live observer in two full
// passes: first SessionChanged (deactivate/evict/activate bookkeeping), then
// MakeService (eager construction for AtOne session services). No observer
// starts the second pass before every observer finished the first.
//
//	m, err := session.NewMediatorWith(Tenant{ID: "acme"})
//	cart := provider.NewSession(cartFactory, m)
//	_ = m.UpdateSession(Tenant{ID: "globex"}, session.RemakeNone)
package session
