package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game"
)

// ResultSaver is the part of Store used by ResultWriter.
type ResultSaver interface {
	SaveResult(ctx context.Context, result game.Result) error
}

// ResultWriter saves game results off the match goroutine. Submit never
// blocks; results are dropped with a warning when the queue is full.
type ResultWriter struct {
	saver   ResultSaver
	queue   chan game.Result
	timeout time.Duration
	logger  *zap.Logger
}

// NewResultWriter creates a writer with a queue of the given size.
func NewResultWriter(saver ResultSaver, size int, logger *zap.Logger) *ResultWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = 64
	}
	return &ResultWriter{
		saver:   saver,
		queue:   make(chan game.Result, size),
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Submit queues a result. It is safe to call from game.Options.OnGameOver.
func (w *ResultWriter) Submit(result game.Result) {
	select {
	case w.queue <- result:
	default:
		w.logger.Warn("result queue full, dropping game result",
			zap.String("match_id", result.MatchID),
			zap.Int("game", result.Game),
		)
	}
}

// Run saves queued results until ctx is cancelled, then drains what is left.
func (w *ResultWriter) Run(ctx context.Context) error {
	for {
		select {
		case result := <-w.queue:
			w.save(context.Background(), result)
		case <-ctx.Done():
			for {
				select {
				case result := <-w.queue:
					w.save(context.Background(), result)
				default:
					return nil
				}
			}
		}
	}
}

func (w *ResultWriter) save(parent context.Context, result game.Result) {
	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	if err := w.saver.SaveResult(ctx, result); err != nil {
		w.logger.Error("failed to save game result",
			zap.String("match_id", result.MatchID),
			zap.Int("game", result.Game),
			zap.Error(err),
		)
	}
}
