package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"forcectl/internal/rest"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newQueryCmd creates the Cobra command for running SOQL queries.
func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [soql]",
		Short: "Run a SOQL query",
		Long: `Run a SOQL query against the org and print the results as a table.

With no argument, an interactive query shell is started.

Examples:
  forcectl query "SELECT Id, Name FROM Account LIMIT 10"
  forcectl query                 # interactive shell`,
		Args: cobra.MaximumNArgs(1),
		RunE: runQuery,
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	set, err := buildClientSet()
	if err != nil {
		return err
	}
	defer set.Close()

	if len(args) == 1 {
		return executeQuery(cmd.Context(), set, args[0])
	}
	return queryShell(cmd.Context(), set)
}

// executeQuery runs one SOQL statement and renders the result.
func executeQuery(ctx context.Context, set *clientSet, soql string) error {
	var result *rest.QueryResult
	err := withSpinner("Running query...", func() error {
		var queryErr error
		result, queryErr = set.client.Query(ctx, soql, rest.Options{})
		return queryErr
	})
	if err != nil {
		return err
	}

	renderQueryResult(result)
	return nil
}

// queryShell is an interactive SOQL loop with line editing and history.
func queryShell(ctx context.Context, set *clientSet) error {
	rl, err := readline.New("soql> ")
	if err != nil {
		return fmt.Errorf("failed to start query shell: %w", err)
	}
	defer rl.Close()

	fmt.Println("Interactive SOQL shell. Type 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err != nil {
			// Interrupt on an empty line or EOF ends the shell.
			if errors.Is(err, readline.ErrInterrupt) && line != "" {
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit":
			return nil
		}

		if err := executeQuery(ctx, set, line); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

// renderQueryResult prints query records as a table. Records are flat maps
// of field name to value; the synthetic attributes object is skipped.
func renderQueryResult(result *rest.QueryResult) {
	if len(result.Records) == 0 {
		fmt.Printf("No records (total size %d)\n", result.TotalSize)
		return
	}

	records := make([]map[string]interface{}, 0, len(result.Records))
	columnSet := make(map[string]struct{})
	for _, raw := range result.Records {
		var record map[string]interface{}
		if err := json.Unmarshal(raw, &record); err != nil {
			continue
		}
		delete(record, "attributes")
		for field := range record {
			columnSet[field] = struct{}{}
		}
		records = append(records, record)
	}

	columns := make([]string, 0, len(columnSet))
	for field := range columnSet {
		columns = append(columns, field)
	}
	sort.Strings(columns)

	t := table.NewWriter()
	header := table.Row{}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	for _, record := range records {
		row := table.Row{}
		for _, c := range columns {
			if v, ok := record[c]; ok && v != nil {
				row = append(row, fmt.Sprint(v))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}

	fmt.Println(t.Render())
	fmt.Printf("%d of %d records", len(records), result.TotalSize)
	if !result.Done {
		fmt.Print(" (more available)")
	}
	fmt.Println()
}
