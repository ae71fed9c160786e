package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bookvault/internal/repositories"
)

const sweepTimeout = 30 * time.Second

// CredentialSweeper clears expired reset OTPs and email verification tokens.
// Accounts with a cleared verification token stay unverified.
type CredentialSweeper struct {
	users repositories.UserRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewCredentialSweeper(users repositories.UserRepository, log *zap.Logger) *CredentialSweeper {
	return &CredentialSweeper{users: users, log: log, now: time.Now}
}

// WithClock replaces the time source used to decide expiry.
func (j *CredentialSweeper) WithClock(now func() time.Time) *CredentialSweeper {
	j.now = now
	return j
}

// Run implements cron.Job.
func (j *CredentialSweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()
	now := j.now()

	otps, err := j.users.ClearExpiredOTPs(ctx, now)
	if err != nil {
		j.log.Warn("failed to clear expired otps", zap.Error(err))
	}
	tokens, err := j.users.ClearExpiredVerificationTokens(ctx, now)
	if err != nil {
		j.log.Warn("failed to clear expired verification tokens", zap.Error(err))
	}
	if otps > 0 || tokens > 0 {
		j.log.Info("expired credentials cleared", zap.Int64("otps", otps), zap.Int64("verificationTokens", tokens))
	}
}

// Sweeper is anything that drops idle state on demand.
type Sweeper interface {
	Sweep() int
}

// SweepJob runs a Sweeper on a schedule.
type SweepJob struct {
	name    string
	sweeper Sweeper
	log     *zap.Logger
}

func NewSweepJob(name string, sweeper Sweeper, log *zap.Logger) *SweepJob {
	return &SweepJob{name: name, sweeper: sweeper, log: log}
}

func (j *SweepJob) Run() {
	if n := j.sweeper.Sweep(); n > 0 {
		j.log.Debug("idle entries dropped", zap.String("job", j.name), zap.Int("count", n))
	}
}
