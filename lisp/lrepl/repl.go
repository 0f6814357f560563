package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/cellar/heap"
	"github.com/npillmayer/cellar/lisp"
	"github.com/npillmayer/cellar/lisp/reader"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

// main() starts an interactive CLI ("L.REPL"), where users may enter Lisp
// expressions. L.REPL evaluates them and prints out the result.
func main() {
	initDisplay()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	initf := flag.String("init", "", "Initial load")
	mark := flag.String("mark", "", "Marking strategy [reversal|recursive]")
	verify := flag.Bool("verify", false, "Verify link restoration after marking")
	cells := flag.Int("cells", heap.DefaultCapacity, "Number of heap cells")
	flag.Parse()
	initConfig(*mark, *verify)
	setTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to LREPL")
	//
	intp, err := newIntp(*cells)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	repl, err := readline.New("lrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp.repl = repl
	defer repl.Close()
	tracer().Infof("Quit with <ctrl>D")
	intp.loadInitFile(*initf)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// initConfig loads the application configuration and overrides it from
// flags. The Go log adapter is registered after initialization, so that
// setting up the global tracers stays quiet.
func initConfig(strategy string, verify bool) {
	conf := koanfadapter.New(nil, "cellar", []string{"nt"})
	gconf.Initialize(conf)
	if strategy != "" {
		conf.Set("gc-mark-strategy", strategy)
	}
	if verify {
		conf.Set("gc-verify-restore", true)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
}

var traceKeys = []string{"cellar.heap", "cellar.lisp", "cellar.reader", "cellar.repl"}

func setTraceLevel(level tracing.TraceLevel) {
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// Intp is our interpreter object
type Intp struct {
	lisp *lisp.Interpreter
	repl *readline.Instance
}

func newIntp(cells int) (intp *Intp, err error) {
	defer heap.Recover(&err)
	h := heap.New(heap.WithCapacity(cells))
	intp = &Intp{lisp: lisp.New(h)}
	tracer().Infof("heap of %d cells, marking by %s", h.Capacity(), h.Strategy())
	return intp, nil
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		tracer().Errorf("Unable to open init file: %s", filename)
		return
	}
	data, err := reader.Read(string(src))
	if err != nil {
		tracer().Errorf("Error in init file %s: %v", filename, err)
		return
	}
	for _, d := range data {
		if _, err := intp.eval(d); err != nil {
			tracer().Errorf("Error at %v: %v", d.Span, err)
		}
	}
}

// REPL starts interactive mode. Input lines are collected until they form
// complete expressions.
func (intp *Intp) REPL() {
	var pending []string
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if len(pending) == 0 && strings.HasPrefix(line, ":") {
			if quit := intp.Execute(line); quit {
				break
			}
			continue
		}
		pending = append(pending, line)
		data, err := reader.Read(strings.Join(pending, "\n"))
		if errors.Is(err, reader.ErrIncomplete) {
			intp.repl.SetPrompt("   ... ")
			continue
		}
		pending = pending[:0]
		intp.repl.SetPrompt("lrepl> ")
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		for _, d := range data {
			if _, err := intp.eval(d); err != nil {
				break
			}
		}
	}
	println("Good bye!")
}

// eval evaluates a datum and prints the result. A fatal heap condition
// ends the process.
func (intp *Intp) eval(d *reader.Datum) (result string, err error) {
	defer intp.fatal()
	r, err := intp.lisp.Eval(d)
	if err != nil {
		pterm.Error.Println(err.Error())
		return "", err
	}
	result = intp.lisp.Sprint(r)
	pterm.Info.Println(result)
	return result, nil
}

func (intp *Intp) fatal() {
	if r := recover(); r != nil {
		if fe, ok := r.(*heap.FatalError); ok {
			pterm.Error.Println("fatal: " + fe.Error())
			intp.showStats()
			os.Exit(1)
		}
		panic(r)
	}
}

// Execute runs a REPL command. It returns true if the REPL should quit.
func (intp *Intp) Execute(line string) bool {
	cmd, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i > 0 {
		cmd, arg = line[:i], strings.TrimSpace(line[i:])
	}
	switch cmd {
	case ":quit", ":q":
		return true
	case ":stats":
		intp.showStats()
	case ":gc":
		defer intp.fatal()
		n := intp.lisp.Heap().Collect()
		pterm.Info.Printf("reclaimed %d cells\n", n)
	case ":tree":
		intp.showTree(arg)
	default:
		pterm.Error.Printf("unknown command %s\n", cmd)
	}
	return false
}

func (intp *Intp) showStats() {
	h := intp.lisp.Heap()
	st := h.Stats()
	pterm.Info.Printf("%d cells, %d free, %d allocations, %d collections, %d reclaimed (%s marking)\n",
		st.Capacity, st.Free, st.Allocations, st.Collections, st.Reclaimed, h.Strategy())
	if data := historyTable(h.History()); len(data) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}

func historyTable(reports []heap.CollectionReport) pterm.TableData {
	data := pterm.TableData{{"cycle", "strategy", "marked", "reclaimed", "live"}}
	for _, r := range reports {
		data = append(data, []string{
			strconv.Itoa(r.Cycle),
			r.Strategy.String(),
			strconv.Itoa(r.Marked),
			strconv.Itoa(r.Reclaimed),
			strconv.Itoa(r.Live),
		})
	}
	return data
}

// showTree evaluates an expression and displays the result as a tree.
func (intp *Intp) showTree(arg string) {
	defer intp.fatal()
	data, err := reader.Read(arg)
	if err != nil || len(data) != 1 {
		pterm.Error.Println("usage: :tree <expr>")
		return
	}
	r, err := intp.lisp.Eval(data[0])
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	// the result must be rendered before anything is allocated
	ll := leveledCells(intp.lisp, r, pterm.LeveledList{}, 0)
	pterm.Println(data[0].String())
	root := pterm.NewTreeFromLeveledList(ll)
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledCells(in *lisp.Interpreter, r heap.Ref, ll pterm.LeveledList, level int) pterm.LeveledList {
	h := in.Heap()
	if r == heap.Nil || h.Type(r) != heap.Pair {
		return append(ll, pterm.LeveledListItem{Level: level, Text: in.Sprint(r)})
	}
	for ; r != heap.Nil && h.Type(r) == heap.Pair; r = h.Right(r) {
		car := h.Left(r)
		if car != heap.Nil && h.Type(car) == heap.Pair {
			ll = leveledCells(in, car, ll, level+1)
		} else {
			ll = append(ll, pterm.LeveledListItem{Level: level, Text: in.Sprint(car)})
		}
	}
	if r != heap.Nil {
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: fmt.Sprintf(". %s", in.Sprint(r))})
	}
	return ll
}
