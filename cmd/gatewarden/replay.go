package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atlas-hq/gatewarden/pkg/admission"
	"atlas-hq/gatewarden/pkg/admission/audit"
	"atlas-hq/gatewarden/pkg/admission/capacity"
)

var (
	replayEventsFile   string
	replayCapacityFile string
	replayAlgorithm    string
	replayAuditDB      string
	replayQuiet        bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a historical request log through a fresh limiter",
	Long: `Replay streams request events through a new limiter, deciding each one at
its recorded event time rather than the wall clock. Out-of-order events are
handled safely: they never rewind bucket state.

The input is JSON Lines, one event per line:

  {"ip":"203.0.113.7","identity":"alice","path":"/home","method":"GET","tenant_id":"ACME","event_time":1718000000000}

Each decision is printed as JSON unless --quiet is set; a summary always
follows on stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReplay()
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayEventsFile, "events", "", "JSONL event log to replay (required)")
	replayCmd.Flags().StringVar(&replayCapacityFile, "capacity", "", "capacity table YAML file")
	replayCmd.Flags().StringVar(&replayAlgorithm, "algorithm", "token_bucket", "bucket algorithm (token_bucket, sliding_log, fixed_window)")
	replayCmd.Flags().StringVar(&replayAuditDB, "audit-db", "", "write decisions to this SQLite database")
	replayCmd.Flags().BoolVar(&replayQuiet, "quiet", false, "suppress per-decision output")
	replayCmd.MarkFlagRequired("events")
}

// replayEvent mirrors the /v1/check request body. event_time is required
// here: a replayed log entry without a timestamp is malformed.
type replayEvent struct {
	IP        string `json:"ip"`
	Identity  string `json:"identity,omitempty"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	TenantID  string `json:"tenant_id"`
	EventTime *int64 `json:"event_time"`
}

type replayResult struct {
	Line      int    `json:"line"`
	Allowed   bool   `json:"allowed"`
	Level     string `json:"level"`
	Key       string `json:"key"`
	Remaining int64  `json:"remaining"`
}

func runReplay() error {
	alg := admission.Algorithm(replayAlgorithm)
	if !alg.Valid() {
		return fmt.Errorf("unknown algorithm %q", replayAlgorithm)
	}

	provider := capacity.NewStatic(capacity.Defaults())
	if replayCapacityFile != "" {
		table, err := capacity.LoadTable(replayCapacityFile)
		if err != nil {
			return err
		}
		provider.Replace(table)
	}

	var sink audit.Sink
	if replayAuditDB != "" {
		s, err := audit.NewSQLiteSink(replayAuditDB)
		if err != nil {
			return err
		}
		defer s.Close()
		sink = s
	}

	limiter := admission.New(admission.Config{
		Capacity:  provider,
		Algorithm: alg,
	})

	f, err := os.Open(replayEventsFile)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	out := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(f)

	var line, allowed, denied, malformed int
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}

		var event replayEvent
		if err := json.Unmarshal(text, &event); err != nil || event.EventTime == nil {
			malformed++
			fmt.Fprintf(os.Stderr, "line %d: malformed event, skipped\n", line)
			continue
		}

		req := admission.Request{
			IP:        event.IP,
			Identity:  event.Identity,
			Path:      event.Path,
			Method:    event.Method,
			TenantID:  event.TenantID,
			EventTime: *event.EventTime,
		}

		decision, err := limiter.Check(req)
		if err != nil {
			malformed++
			fmt.Fprintf(os.Stderr, "line %d: %v\n", line, err)
			continue
		}

		if decision.Allowed {
			allowed++
		} else {
			denied++
		}

		if sink != nil {
			if err := sink.Write(ctx, audit.NewRecord(req, decision)); err != nil {
				return fmt.Errorf("failed to write audit record: %w", err)
			}
		}

		if !replayQuiet {
			out.Encode(replayResult{
				Line:      line,
				Allowed:   decision.Allowed,
				Level:     decision.Level,
				Key:       decision.Key,
				Remaining: decision.Remaining,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}

	fmt.Fprintf(os.Stderr, "replayed %d events: %d allowed, %d denied, %d malformed\n",
		line, allowed, denied, malformed)
	return nil
}
