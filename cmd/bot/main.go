package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"voxelbrain/internal/agent"
	"voxelbrain/internal/behavior"
	"voxelbrain/internal/behavior/chains"
	"voxelbrain/internal/catalogs"
	"voxelbrain/internal/client"
	"voxelbrain/internal/config"
	"voxelbrain/internal/persistence/memory"
	"voxelbrain/internal/persistence/trace"
	"voxelbrain/internal/protocol"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "config yaml path")
		url     = flag.String("url", "", "ws url (overrides config)")
		name    = flag.String("name", "", "agent name (overrides config)")
	)
	var goals []string
	flag.Func("goal", "goal directive, repeatable (appended to config goals)", func(v string) error {
		goals = append(goals, v)
		return nil
	})
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *url != "" {
		cfg.ServerURL = *url
	}
	if *name != "" {
		cfg.AgentName = *name
	}
	cfg.Goals = append(cfg.Goals, goals...)

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cats, err := catalogs.Load(cfg.CatalogDir)
	if err != nil {
		return err
	}

	var mem *memory.Store
	if cfg.MemoryPath != "" {
		mem, err = memory.Open(cfg.MemoryPath)
		if err != nil {
			return err
		}
		defer mem.Close()
	}

	var traces *trace.Writer
	if cfg.TraceDir != "" {
		traces = trace.NewWriter(cfg.TraceDir)
		defer traces.Close()
	}

	session, err := client.Dial(ctx, cfg.ServerURL, cfg.AgentName, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	logger.Printf("connected agent_id=%s tick_rate=%d seed=%d",
		session.AgentID, session.Params.TickRateHz, session.Params.Seed)

	ctl := agent.New(agent.Options{
		Logger:   logger,
		AgentID:  session.AgentID,
		Params:   session.Params,
		Catalogs: cats,
		Memory:   mem,
	})

	sched := behavior.NewScheduler()
	chains.Standard(sched, cfg.Behavior, cfg.Goals)

	// Closing the connection on signal unblocks the ReadObs below.
	go func() {
		<-ctx.Done()
		session.Close()
	}()

	for {
		obs, err := session.ReadObs()
		if err != nil {
			if ctx.Err() != nil {
				logger.Printf("shutting down")
				return nil
			}
			return err
		}

		ctl.Observe(obs)
		report := sched.Tick(ctl)
		act := ctl.FlushActs()

		if traces != nil {
			if err := traces.Write(traceEntry(report, act)); err != nil {
				logger.Printf("trace: %v", err)
			}
		}

		if err := session.WriteAct(act); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func traceEntry(report behavior.TickReport, act *protocol.ActMsg) trace.Entry {
	e := trace.Entry{
		Tick:        report.Tick,
		Winner:      report.Winner,
		Interrupted: report.Interrupted,
		TaskPath:    report.TaskPath,
	}
	for _, c := range report.Chains {
		e.Chains = append(e.Chains, trace.ChainSnapshot{
			Name:     c.Name,
			Active:   c.Active,
			Priority: int(c.Priority),
		})
	}
	if act != nil {
		e.Instants = len(act.Instants)
		e.Tasks = len(act.Tasks)
	}
	return e
}
