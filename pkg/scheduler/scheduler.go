package scheduler

import (
	"context"
	"nihongolab_backend/pkg/logger"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Reconciler 按作答记录重建缺失的用户统计
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// Scheduler 管理后台定时任务
type Scheduler struct {
	scheduler  *gocron.Scheduler
	reconciler Reconciler
	interval   time.Duration
	timeout    time.Duration
}

func New(reconciler Reconciler, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:  s,
		reconciler: reconciler,
		interval:   interval,
		timeout:    5 * time.Minute,
	}
}

// Start 注册任务并异步运行，首次任务立即执行
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Tag("stats-reconcile").Do(s.reconcileStats); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) reconcileStats() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		logger.Log.Error("统计对账失败", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("统计对账完成", zap.Int("users", n))
	}
}
