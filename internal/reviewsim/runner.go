package reviewsim

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/ninebox/internal/adapters/spreadsheet"
	"github.com/okian/ninebox/pkg/logger"
)

// Run executes a complete simulated review and returns its statistics.
// Verification failures are returned as errors together with the
// statistics gathered so far.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("reviewsim")

	if config.Employees <= 0 {
		return stats, fmt.Errorf("employees must be positive, got %d", config.Employees)
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}

	log.Info(ctx, "starting simulated review",
		logger.String("baseURL", config.BaseURL),
		logger.Int("employees", config.Employees),
		logger.Int("moves", config.Moves),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed))

	client := newHTTPClient(config.BaseURL, config.Timeout)
	gen := newGenerator(config.Seed)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Upload a generated roster
	roster, err := gen.roster(config.Employees)
	if err != nil {
		return stats, err
	}
	var created Summary
	if err := client.call(ctx, http.MethodPost, "/sessions", roster, http.StatusCreated, &created); err != nil {
		return stats, fmt.Errorf("session creation failed: %w", err)
	}
	stats.SessionID = created.SessionID
	stats.Employees = created.EmployeeCount
	log.Info(ctx, "session created", logger.String("sessionID", created.SessionID))

	if !config.Keep {
		defer deleteSession(client, created.SessionID, log)
	}

	base := "/sessions/" + created.SessionID
	expected := newExpectation(roster)

	// Step 3: Move employees concurrently in normal mode
	moves := gen.moves(roster, config.Moves)
	failed := submitMoves(ctx, client, base, moves, config, log)
	stats.MovesSubmitted += len(moves)
	stats.MovesFailed += failed
	if failed > 0 {
		return stats, fmt.Errorf("%d of %d moves failed", failed, len(moves))
	}
	expected.apply(moves)

	// Step 4: Verify the primary ledger
	employees, err := verifyState(ctx, client, base, expected)
	if err != nil {
		return stats, fmt.Errorf("primary verification failed: %w", err)
	}

	// Step 5: Run the donut exercise
	donut, err := runDonut(ctx, client, base, gen, employees, config, stats, log)
	if err != nil {
		return stats, fmt.Errorf("donut exercise failed: %w", err)
	}
	expected.apply(donut)
	expected.donut(donut)

	if _, err := verifyState(ctx, client, base, expected); err != nil {
		return stats, fmt.Errorf("verification after donut exercise failed: %w", err)
	}

	// Step 6: Compare the summary with what was observed
	var summary Summary
	if err := client.call(ctx, http.MethodGet, base, nil, http.StatusOK, &summary); err != nil {
		return stats, fmt.Errorf("summary retrieval failed: %w", err)
	}
	stats.PrimaryChanges = summary.PrimaryChanges
	stats.DonutChanges = summary.DonutChanges
	stats.BigMovers = summary.BigMovers
	if summary.PrimaryChanges != expected.primaryCount() || summary.DonutChanges != expected.donutCount() {
		return stats, fmt.Errorf("summary counts %d/%d, want %d/%d",
			summary.PrimaryChanges, summary.DonutChanges, expected.primaryCount(), expected.donutCount())
	}

	// Step 7: Export the workbook and read it back
	if err := exportWorkbook(ctx, client, base, config, stats, log); err != nil {
		return stats, fmt.Errorf("export failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	log.Info(ctx, "simulated review completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, _, err := client.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// The service answers with Prometheus metrics; any 200 is healthy.
	if status != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnexpectedStatus, status)
	}
	return nil
}

func runDonut(ctx context.Context, client *HTTPClient, base string, gen *generator,
	employees []EmployeeState, config *Config, stats *Stats, log logger.Logger) ([]Move, error) {
	if err := toggleDonut(ctx, client, base, true); err != nil {
		return nil, err
	}

	var eligible []string
	outOfScope := ""
	for _, e := range employees {
		switch {
		case e.DonutEligible:
			eligible = append(eligible, e.EmployeeID)
		case outOfScope == "":
			outOfScope = e.EmployeeID
		}
	}

	if outOfScope != "" {
		probe := Move{EmployeeID: outOfScope, Performance: gen.level(), Potential: gen.level()}
		if err := client.call(ctx, http.MethodPost, base+"/moves", probe, http.StatusUnprocessableEntity, nil); err != nil {
			return nil, fmt.Errorf("scope guard: %w", err)
		}
		stats.ScopeRejected = true
	}

	moves := gen.donutMoves(eligible)
	failed := submitMoves(ctx, client, base, moves, config, log)
	stats.DonutMoves = len(moves)
	stats.MovesFailed += failed
	if failed > 0 {
		return nil, fmt.Errorf("%d of %d donut moves failed", failed, len(moves))
	}

	if err := toggleDonut(ctx, client, base, false); err != nil {
		return nil, err
	}
	log.Info(ctx, "donut exercise completed",
		logger.Int("eligible", len(eligible)),
		logger.Bool("scopeChecked", stats.ScopeRejected))
	return moves, nil
}

func toggleDonut(ctx context.Context, client *HTTPClient, base string, enabled bool) error {
	var out struct {
		Enabled bool `json:"enabled"`
	}
	body := map[string]bool{"enabled": enabled}
	if err := client.call(ctx, http.MethodPost, base+"/donut", body, http.StatusOK, &out); err != nil {
		return err
	}
	if out.Enabled != enabled {
		return fmt.Errorf("donut mode is %v, want %v", out.Enabled, enabled)
	}
	return nil
}

// exportWorkbook downloads the session workbook and checks that it reads
// back as a baseline of the same size.
func exportWorkbook(ctx context.Context, client *HTTPClient, base string, config *Config, stats *Stats, log logger.Logger) error {
	status, data, err := client.do(ctx, http.MethodGet, base+"/export", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: export returned %d", ErrUnexpectedStatus, status)
	}
	stats.ExportBytes = len(data)

	parsed, err := spreadsheet.New().ParseBaseline(ctx, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("exported workbook does not parse: %w", err)
	}
	if len(parsed) != stats.Employees {
		return fmt.Errorf("exported workbook has %d employees, want %d", len(parsed), stats.Employees)
	}

	if config.OutputFile == "" {
		return nil
	}
	if dir := filepath.Dir(config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(config.OutputFile, data, filePermission); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Info(ctx, "workbook saved", logger.String("filename", config.OutputFile))
	return nil
}

func deleteSession(client *HTTPClient, id string, log logger.Logger) {
	ctx := context.Background()
	if err := client.call(ctx, http.MethodDelete, "/sessions/"+id, nil, http.StatusNoContent, nil); err != nil {
		log.Warn(ctx, "failed to delete session", logger.String("sessionID", id), logger.Error(err))
	}
}

// displayFinalStats logs the final simulation statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var movesPerSecond float64
	if stats.Duration > 0 {
		movesPerSecond = float64(stats.MovesSubmitted+stats.DonutMoves) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.String("sessionID", stats.SessionID),
		logger.Int("employees", stats.Employees),
		logger.Int("movesSubmitted", stats.MovesSubmitted),
		logger.Int("donutMoves", stats.DonutMoves),
		logger.Int("movesFailed", stats.MovesFailed),
		logger.Int("primaryChanges", stats.PrimaryChanges),
		logger.Int("donutChanges", stats.DonutChanges),
		logger.Int("bigMovers", stats.BigMovers),
		logger.Int("exportBytes", stats.ExportBytes),
		logger.Duration("duration", stats.Duration),
		logger.Float64("movesPerSecond", movesPerSecond))
}
