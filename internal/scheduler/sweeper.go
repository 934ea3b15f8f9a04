// Package scheduler runs the background sweep that cleans up games
// whose clients disappeared.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ketball/backend/internal/domain"
	"github.com/ketball/backend/internal/repository"
	"github.com/ketball/backend/internal/service"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 30 * time.Second

// Sweeper periodically force-ends playing games whose clock ran out and
// deletes waiting games nobody ever joined.
type Sweeper struct {
	cron        *cron.Cron
	pool        *pgxpool.Pool
	games       repository.GameRepository
	queue       repository.QueueRepository
	gameService *service.GameService
	grace       time.Duration
	waitingTTL  time.Duration
	logger      *slog.Logger
}

// NewSweeper creates a sweeper. Grace is the slack added to the match
// clock before a playing game counts as abandoned; waitingTTL is how
// long an unmatched waiting game may linger.
func NewSweeper(
	pool *pgxpool.Pool,
	games repository.GameRepository,
	queue repository.QueueRepository,
	gameService *service.GameService,
	grace, waitingTTL time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		cron:        cron.New(),
		pool:        pool,
		games:       games,
		queue:       queue,
		gameService: gameService,
		grace:       grace,
		waitingTTL:  waitingTTL,
		logger:      logger,
	}
}

// Start registers the sweep on the given cron spec and starts the
// scheduler.
func (s *Sweeper) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("game sweeper started", "spec", spec)
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("game sweeper stopped")
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	ended, removed, err := s.SweepOnce(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	if ended > 0 || removed > 0 {
		s.logger.Info("sweep completed", "games_ended", ended, "games_removed", removed)
	}
}

// SweepOnce performs one sweep pass and reports how many playing games
// were force-ended and how many stale waiting games were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (ended, removed int, err error) {
	now := time.Now()

	playingCutoff := now.Add(-(domain.GameDuration*time.Second + s.grace))
	expired, err := s.games.ListExpiredPlaying(ctx, s.pool, playingCutoff)
	if err != nil {
		return 0, 0, err
	}
	for i := range expired {
		if err := s.gameService.ForceEnd(ctx, &expired[i]); err != nil {
			s.logger.Error("force-end expired game failed", "game_id", expired[i].ID, "error", err)
			continue
		}
		ended++
	}

	stale, err := s.games.ListStaleWaiting(ctx, s.pool, now.Add(-s.waitingTTL))
	if err != nil {
		return ended, 0, err
	}
	for i := range stale {
		if err := s.games.Delete(ctx, s.pool, stale[i].ID); err != nil {
			s.logger.Error("delete stale waiting game failed", "game_id", stale[i].ID, "error", err)
			continue
		}
		if err := s.queue.Dequeue(ctx, s.pool, stale[i].Player1ID); err != nil {
			s.logger.Warn("dequeue stale creator failed", "player_id", stale[i].Player1ID, "error", err)
		}
		removed++
	}

	return ended, removed, nil
}
