// Package agent holds the controller state shared by every behavior hook:
// the world view parsed from OBS messages (read surface) and the actuation
// buffer flushed as ACT messages (write surface).
package agent

import (
	"log"

	"voxelbrain/internal/catalogs"
	"voxelbrain/internal/persistence/memory"
	"voxelbrain/internal/protocol"
)

// Controller is passed into every task and chain hook. It is the only way
// behavior code touches the outside world.
type Controller struct {
	logger  *log.Logger
	agentID string
	params  protocol.WorldParams

	view *View
	acts *Acts

	cats *catalogs.Catalogs
	mem  *memory.Store
}

// Options configures a Controller. Catalogs and Memory may be nil; tasks
// that need them must tolerate their absence by failing finished.
type Options struct {
	Logger   *log.Logger
	AgentID  string
	Params   protocol.WorldParams
	Catalogs *catalogs.Catalogs
	Memory   *memory.Store
}

func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.Writer(), "[bot] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Controller{
		logger:  logger,
		agentID: opts.AgentID,
		params:  opts.Params,
		view:    newView(),
		acts:    newActs(),
		cats:    opts.Catalogs,
		mem:     opts.Memory,
	}
}

// Observe folds the tick's observation into the view and clears the
// actuation buffer for the coming scheduler pass.
func (c *Controller) Observe(obs *protocol.ObsMsg) {
	c.view.apply(obs)
	c.acts.reset()
}

// FlushActs drains everything queued this tick, nil when idle.
func (c *Controller) FlushActs() *protocol.ActMsg {
	return c.acts.flush(c.view.Tick, c.agentID)
}

func (c *Controller) View() *View { return c.view }
func (c *Controller) Acts() *Acts { return c.acts }

func (c *Controller) AgentID() string { return c.agentID }

func (c *Controller) Catalogs() *catalogs.Catalogs { return c.cats }
func (c *Controller) Memory() *memory.Store        { return c.mem }

func (c *Controller) Logf(format string, args ...any) {
	c.logger.Printf(format, args...)
}

// Tick and TickRateHz satisfy timers.TickSource.
func (c *Controller) Tick() uint64 { return c.view.Tick }

func (c *Controller) TickRateHz() int {
	if c.params.TickRateHz <= 0 {
		return 5
	}
	return c.params.TickRateHz
}
