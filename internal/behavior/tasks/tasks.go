// Package tasks is the concrete behavior catalog built on the behavior
// core: leaf tasks that drive actuation and composites that delegate.
//
// Tasks follow the engine contract strictly: they never start or stop the
// children they nominate, they re-derive nominees from fresh state every
// tick, and they surface failure by finishing with the failed marker
// rather than returning errors.
package tasks

// failure is embedded by tasks that can get stuck; it satisfies
// behavior.Failer through promotion.
type failure struct {
	failed bool
}

func (f *failure) markFailed()  { f.failed = true }
func (f *failure) Failed() bool { return f.failed }

const defaultMoveTimeoutSeconds = 45
