// Command replay inspects the bot's decision traces: which chain won each
// tick, what task path ran, and where control changed hands.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelbrain/internal/persistence/trace"
)

func main() {
	var (
		dir      = flag.String("trace", "trace", "trace dir containing trace-*.jsonl.zst")
		fromTick = flag.Uint64("from_tick", 0, "start at tick (inclusive, optional)")
		toTick   = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
		verbose  = flag.Bool("v", false, "print every tick, not just control changes")
	)
	flag.Parse()

	files, err := listTraceFiles(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list traces:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no trace files found in", *dir)
		os.Exit(1)
	}

	wins := map[string]uint64{}
	var ticks, interrupts uint64
	lastWinner := ""

	for _, path := range files {
		err := scanFile(path, func(e trace.Entry) {
			if *fromTick != 0 && e.Tick < *fromTick {
				return
			}
			if *toTick != 0 && e.Tick > *toTick {
				return
			}
			ticks++
			wins[e.Winner]++
			if e.Interrupted != "" {
				interrupts++
			}
			if *verbose || e.Winner != lastWinner {
				printEntry(e)
			}
			lastWinner = e.Winner
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "scan:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\nticks=%d interrupts=%d\n", ticks, interrupts)
	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		label := name
		if label == "" {
			label = "(idle)"
		}
		fmt.Printf("  %-12s %d\n", label, wins[name])
	}
}

func printEntry(e trace.Entry) {
	line := fmt.Sprintf("tick=%d winner=%s", e.Tick, e.Winner)
	if e.Interrupted != "" {
		line += " interrupted=" + e.Interrupted
	}
	if len(e.TaskPath) > 0 {
		line += " path=" + strings.Join(e.TaskPath, " > ")
	}
	if e.Instants+e.Tasks > 0 {
		line += fmt.Sprintf(" acts=%d/%d", e.Instants, e.Tasks)
	}
	fmt.Println(line)
}

func listTraceFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "trace-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

func scanFile(path string, fn func(trace.Entry)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer zr.Close()

	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		var e trace.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return fmt.Errorf("%s: bad entry: %w", path, err)
		}
		fn(e)
	}
	return sc.Err()
}
