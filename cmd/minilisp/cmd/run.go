package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/eval"
	"github.com/kjhall/minilisp/internal/heap"
	"github.com/kjhall/minilisp/internal/printer"
	"github.com/kjhall/minilisp/internal/reader"
	"github.com/kjhall/minilisp/internal/value"
	"github.com/kjhall/minilisp/primitives"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	trace    bool
	dump     bool
	maxPairs int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a source file, or start a REPL if none is given",
	Long: `Evaluate top-level forms from a file, or from stdin when no file
is given.

Examples:
  minilisp run program.lisp
  minilisp run --trace program.lisp
  minilisp run --dump program.lisp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&trace, "trace", false, "log each evaluator step at debug level")
	runCmd.Flags().BoolVar(&dump, "dump", false, "print the reader's parsed datums before evaluating")
	runCmd.Flags().IntVar(&maxPairs, "max-pairs", 0, "cap the heap's pair arena (0 means unbounded)")
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.InfoLevel)
	}
	if trace {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func newMachine() *eval.Machine {
	log := newLogger()
	h := heap.New(maxPairs)
	m := eval.New(h, log)
	primitives.InstallAll(m)
	return m
}

func runScript(_ *cobra.Command, args []string) error {
	m := newMachine()

	if len(args) == 0 {
		return runREPL(m)
	}

	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	datums, err := reader.ReadAll(string(content), m.Heap)
	if err != nil {
		return reportDiag(err, string(content))
	}

	if dump {
		dumpDatums(m, datums)
	}

	for _, d := range datums {
		if _, err := m.Eval(d, m.Global); err != nil {
			if verbose {
				logHeapStats(m)
			}
			return reportDiag(err, string(content))
		}
	}

	if verbose {
		logHeapStats(m)
	}
	return nil
}

// runREPL implements the read-eval-print loop: each line of input is read
// as a sequence of complete top-level datums (a datum cannot span lines),
// and each datum is evaluated and printed in turn, with errors reported and
// the loop continuing rather than exiting.
func runREPL(m *eval.Machine) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Fprint(os.Stdout, "> ")
			continue
		}

		datums, err := reader.ReadAll(line, m.Heap)
		if err != nil {
			fmt.Fprintln(os.Stderr, reportDiagString(err, line))
			fmt.Fprint(os.Stdout, "> ")
			continue
		}

		if dump {
			dumpDatums(m, datums)
		}

		for _, d := range datums {
			v, err := m.Eval(d, m.Global)
			if err != nil {
				fmt.Fprintln(os.Stderr, reportDiagString(err, line))
				continue
			}
			fmt.Fprintln(os.Stdout, printer.Write(m.Heap, v))
		}

		if verbose {
			logHeapStats(m)
		}
		fmt.Fprint(os.Stdout, "> ")
	}
	fmt.Fprintln(os.Stdout)
	return nil
}

func dumpDatums(m *eval.Machine, datums []value.Value) {
	fmt.Fprintln(os.Stdout, "datums:")
	for _, d := range datums {
		fmt.Fprintln(os.Stdout, " ", printer.Write(m.Heap, d))
	}
}

func logHeapStats(m *eval.Machine) {
	m.Log.WithFields(logrus.Fields{
		"pair-live":   m.Heap.Stats.PairLive.Load(),
		"proc-live":   m.Heap.Stats.ProcLive.Load(),
		"pair-allocs": m.Heap.Stats.PairAllocs.Load(),
		"proc-allocs": m.Heap.Stats.ProcAllocs.Load(),
		"collections": m.Heap.Stats.Collections.Load(),
	}).Info("heap stats")
}

func reportDiagString(err error, source string) string {
	if de, ok := err.(*diag.Error); ok {
		return diag.Format(de, source)
	}
	return err.Error()
}

func reportDiag(err error, source string) error {
	fmt.Fprintln(os.Stderr, reportDiagString(err, source))
	return fmt.Errorf("execution failed")
}
