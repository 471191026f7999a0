package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"github.com/ShaliniAnandaPhD/NueralCircuit/internal/config"
)

// DefaultHealthTable is the GreptimeDB table receiving health events.
const DefaultHealthTable = "circuit_health"

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes health-bearing events to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client  greptimeClient
	table   string
	timeout time.Duration
	now     func() time.Time
}

// NewGreptimeDBWriter creates a writer for the configured GreptimeDB endpoint.
func NewGreptimeDBWriter(cfg config.GreptimeConfig) (*GreptimeDBWriter, error) {
	db := cfg.Database
	if db == "" {
		db = "public"
	}
	gcfg := greptime.NewConfig(cfg.Endpoint).WithDatabase(db)
	if cfg.Port > 0 {
		gcfg = gcfg.WithPort(cfg.Port)
	}
	client, err := greptime.NewClient(gcfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	tbl := cfg.Table
	if tbl == "" {
		tbl = DefaultHealthTable
	}
	return &GreptimeDBWriter{client: client, table: tbl, timeout: 5 * time.Second, now: time.Now}, nil
}

// Table name suffixes of the fault and recovery tables.
const (
	faultTableSuffix    = "_faults"
	recoveryTableSuffix = "_recoveries"
)

// tableSchema lists the field columns of one table. Every table is tagged
// with session_id and indexed by ts.
type tableSchema struct {
	strings []string
	floats  []string
}

var (
	healthSchema = tableSchema{
		strings: []string{"state_type", "target_agent"},
		floats: []string{
			"health_score",
			"system_integrity",
			"agent_confidence",
			"coordination_efficiency",
			"message_throughput",
			"response_latency",
			"error_rate",
		},
	}
	faultSchema = tableSchema{
		strings: []string{"target_agent", "fault_type"},
		floats:  []string{"severity", "recovery_steps", "recovery_time_ms"},
	}
	recoverySchema = tableSchema{
		strings: []string{"target_agent", "resilience_rating"},
		floats:  []string{"before_score", "after_score", "recovery_success", "agents_improved", "agents_degraded"},
	}
)

func newTable(name string, schema tableSchema) (*table.Table, error) {
	tbl, err := table.New(name)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("session_id", types.STRING); err != nil {
		return nil, err
	}
	for _, f := range schema.strings {
		if err := tbl.AddFieldColumn(f, types.STRING); err != nil {
			return nil, err
		}
	}
	for _, f := range schema.floats {
		if err := tbl.AddFieldColumn(f, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	return tbl, nil
}

// pendingTable collects the rows of one table during a batch.
type pendingTable struct {
	name   string
	schema tableSchema
	tbl    *table.Table
	rows   int
}

func (p *pendingTable) add(values ...any) error {
	if p.tbl == nil {
		tbl, err := newTable(p.name, p.schema)
		if err != nil {
			return err
		}
		p.tbl = tbl
	}
	if err := p.tbl.AddRow(values...); err != nil {
		return err
	}
	p.rows++
	return nil
}

func boolFloat(b *bool) float64 {
	if b != nil && *b {
		return 1
	}
	return 0
}

func (w *GreptimeDBWriter) timestamp(ev Event) time.Time {
	if ts := ev.Time(); !ts.IsZero() {
		return ts
	}
	return w.now()
}

// WriteEvent inserts a single event.
func (w *GreptimeDBWriter) WriteEvent(ev Event) error {
	return w.WriteEvents([]Event{ev})
}

// WriteEvents inserts health snapshots, faults and recoveries in one write,
// each kind into its own table so no row carries placeholder values.
func (w *GreptimeDBWriter) WriteEvents(evs []Event) error {
	health := &pendingTable{name: w.table, schema: healthSchema}
	faults := &pendingTable{name: w.table + faultTableSuffix, schema: faultSchema}
	recoveries := &pendingTable{name: w.table + recoveryTableSuffix, schema: recoverySchema}

	for _, ev := range evs {
		ts := w.timestamp(ev)
		var err error
		switch ev.EventType {
		case EventSystemState:
			m := ev.Metrics
			if m == nil {
				slog.Debug("greptime skipping state without metrics", "state_type", ev.StateType)
				continue
			}
			err = health.add(ev.SessionID, ev.StateType, ev.TargetAgent,
				ev.HealthScore, m.SystemIntegrity, m.AgentConfidence, m.CoordinationEfficiency,
				m.MessageThroughput, m.ResponseLatency, m.ErrorRate, ts)
		case EventFaultInjection:
			err = faults.add(ev.SessionID, ev.TargetAgent, ev.FaultType,
				ev.Severity, float64(ev.RecoverySteps), float64(ev.TotalRecoveryTimeMS), ts)
		case EventHealthComparison:
			err = recoveries.add(ev.SessionID, ev.TargetAgent, ev.ResilienceRating,
				ev.BeforeScore, ev.AfterScore, boolFloat(ev.RecoverySuccess),
				float64(ev.AgentsImproved), float64(ev.AgentsDegraded), ts)
		}
		if err != nil {
			return fmt.Errorf("greptime row: %w", err)
		}
	}

	var tables []*table.Table
	rows := 0
	for _, p := range []*pendingTable{health, faults, recoveries} {
		if p.rows > 0 {
			tables = append(tables, p.tbl)
			rows += p.rows
		}
	}
	if len(tables) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tables...); err != nil {
		slog.Error("greptime write failed", "table", w.table, "err", err)
		return fmt.Errorf("greptime write: %w", err)
	}
	slog.Debug("greptime write", "table", w.table, "tables", len(tables), "rows", rows)
	return nil
}
