// Package cli implements the interactive, menu-driven search loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/evaluation"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/services"
)

const (
	defaultTopN = 10
	prompt      = ">> "
)

var (
	methodChoices   = map[string]search.Method{"1": search.MethodBoolean, "2": search.MethodVSM, "3": search.MethodBM25}
	operatorChoices = map[string]search.Operator{"1": search.OperatorAND, "2": search.OperatorOR, "3": search.OperatorNOT}
)

// EvaluationTarget is a dataset the Evaluate menu entry runs the judged queries of.
// Prepare is called on first use, so expensive collections are only built when asked for.
type EvaluationTarget struct {
	Name    string
	Prepare func(ctx context.Context) (services.Searcher, []corpus.TestQuery, error)
}

// Options configures a CLI.
type Options struct {
	Targets []EvaluationTarget
	Workers int // evaluation workers
	Logger  *zap.Logger
}

// CLI reads menu choices from an input stream and writes results to an output stream.
type CLI struct {
	scanner  *bufio.Scanner
	out      io.Writer
	searcher services.Searcher
	targets  []EvaluationTarget
	workers  int
	styles   styles
	logger   *zap.Logger
}

// New creates a CLI searching with searcher.
func New(in io.Reader, out io.Writer, searcher services.Searcher, opts Options) *CLI {
	return &CLI{
		scanner:  bufio.NewScanner(in),
		out:      out,
		searcher: searcher,
		targets:  opts.Targets,
		workers:  opts.Workers,
		styles:   newStyles(out),
		logger:   logging.OrNop(opts.Logger),
	}
}

// Run shows the main menu until the user exits, the input ends or ctx is cancelled.
func (c *CLI) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("\n-- Options --\n1. Search\n2. Evaluate all methods\n3. Exit\n")
		choice, ok := c.ask(prompt)
		if !ok {
			return c.scanner.Err()
		}

		switch choice {
		case "1":
			if !c.searchFlow() {
				return c.scanner.Err()
			}
		case "2":
			if err := c.evaluateFlow(ctx); err != nil {
				c.printf("Evaluation failed: %v\n", err)
				c.logger.Error("evaluation failed", zap.Error(err))
			}
		case "3":
			c.printf("Exiting, bye...\n")
			return nil
		default:
			c.printf("Invalid choice, please try again\n")
		}
	}
}

// searchFlow asks for a query and its options and prints the results.
// It returns false when the input ended.
func (c *CLI) searchFlow() bool {
	query, ok := c.ask("Enter your search query: ")
	if !ok {
		return false
	}
	if query == "" {
		c.printf("Empty query, please try again\n")
		return true
	}

	c.printf("\n-- Select retrieval method --\n1. Boolean\n2. Vector Space Model (TF-IDF)\n3. BM25\n")
	choice, ok := c.ask(prompt)
	if !ok {
		return false
	}
	method, found := methodChoices[choice]
	if !found {
		method = search.MethodBM25
	}

	operator := search.OperatorAND
	if method == search.MethodBoolean {
		c.printf("\n-- Select boolean operator --\n" +
			"1. AND (all terms must match)\n" +
			"2. OR (any terms must match)\n" +
			"3. NOT (exclude documents containing the given terms)\n")
		choice, ok := c.ask(prompt)
		if !ok {
			return false
		}
		if op, found := operatorChoices[choice]; found {
			operator = op
		}
	}

	topN := defaultTopN
	if method != search.MethodBoolean {
		answer, ok := c.ask(fmt.Sprintf("\n# of results to show (default: %d) ", defaultTopN))
		if !ok {
			return false
		}
		if isDigits(answer) {
			if n, err := strconv.Atoi(answer); err == nil {
				topN = n
			}
		}
	}

	result, err := c.searcher.SearchWithHits(services.SearchQuery{
		QueryString: query,
		Method:      string(method),
		Operator:    string(operator),
		TopK:        &topN,
	})
	if err != nil {
		c.printf("Search failed: %v\n", err)
		return true
	}

	c.renderResults(query, method, result)
	return true
}

// evaluateFlow runs every method over the judged queries of every target and prints
// a summary table per dataset.
func (c *CLI) evaluateFlow(ctx context.Context) error {
	if len(c.targets) == 0 {
		c.printf("No evaluation datasets are configured\n")
		return nil
	}

	type outcome struct {
		name   string
		report *evaluation.Report
	}
	outcomes := make([]outcome, 0, len(c.targets))

	for _, target := range c.targets {
		c.printf("\n%s\nEvaluating %s dataset...\n%s\n\n", rule, target.Name, rule)

		searcher, queries, err := target.Prepare(ctx)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", target.Name, err)
		}
		evaluator, err := evaluation.NewEvaluator(searcher, evaluation.Config{Workers: c.workers}, c.logger, nil)
		if err != nil {
			return err
		}
		report, err := evaluator.EvaluateAll(ctx, queries, search.Methods, evaluation.DefaultTopN)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", target.Name, err)
		}

		c.renderQueryReports(report)
		outcomes = append(outcomes, outcome{name: target.Name, report: report})
	}

	for _, o := range outcomes {
		c.renderSummary(o.name, o.report)
	}
	return nil
}

// ask prints label and reads one trimmed line. It returns false at the end of the input.
func (c *CLI) ask(label string) (string, bool) {
	c.printf("%s", label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *CLI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
