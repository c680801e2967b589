package reviewsim

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/ninebox/pkg/logger"
)

// submitMoves sends moves through a worker pool and returns how many
// failed. Every move of one employee goes to the same worker, so the
// service sees each employee's moves in plan order.
func submitMoves(ctx context.Context, client *HTTPClient, base string, moves []Move, config *Config, log logger.Logger) int {
	if len(moves) == 0 {
		return 0
	}
	workers := min(config.Workers, len(moves))

	var submitted, failed int64

	queues := make([]chan Move, workers)
	for i := range queues {
		queues[i] = make(chan Move, workers*WorkerChannelMultiplier)
	}

	var wg sync.WaitGroup
	for i := range queues {
		wg.Add(1)
		go func(queue <-chan Move) {
			defer wg.Done()
			for move := range queue {
				err := client.call(ctx, http.MethodPost, base+"/moves", move, http.StatusOK, nil)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Warn(ctx, "move failed", logger.String("employeeID", move.EmployeeID), logger.Error(err))
					continue
				}
				if config.Verbose {
					log.Debug(ctx, "move accepted",
						logger.String("employeeID", move.EmployeeID),
						logger.Int("position", int(move.Position())))
				}
			}
		}(queues[i])
	}

	done := make(chan struct{})
	go reportProgress(ctx, log, &submitted, &failed, len(moves), done)

	owner := make(map[string]int)
	next := 0
	func() {
		defer func() {
			for _, q := range queues {
				close(q)
			}
		}()
		for _, move := range moves {
			w, ok := owner[move.EmployeeID]
			if !ok {
				w = next % workers
				owner[move.EmployeeID] = w
				next++
			}
			select {
			case <-ctx.Done():
				return
			case queues[w] <- move:
			}
		}
	}()

	wg.Wait()
	close(done)

	// Moves never handed to a worker count as failed.
	return int(atomic.LoadInt64(&failed)) + len(moves) - int(atomic.LoadInt64(&submitted))
}

func reportProgress(ctx context.Context, log logger.Logger, submitted, failed *int64, total int, done <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Info(ctx, "progress",
				logger.Int("submitted", int(atomic.LoadInt64(submitted))),
				logger.Int("failed", int(atomic.LoadInt64(failed))),
				logger.Int("total", total))
		}
	}
}
