// Package cleanup 周期性停用已过期的短链接
package cleanup

import (
	"context"
	"sync"
	"time"

	"shortlink-platform/internal/store"

	"go.uber.org/zap"
)

// Worker 过期清理后台任务
// 只做停用不做删除：停用后解析路径立即拒绝，数据留给所有者处置
type Worker struct {
	mappings  *store.MappingStore
	interval  time.Duration
	stopChan  chan struct{}
	mu        sync.Mutex
	isRunning bool
	logger    *zap.SugaredLogger
}

// NewWorker 创建清理任务实例
func NewWorker(mappings *store.MappingStore, interval time.Duration, logger *zap.SugaredLogger) *Worker {
	return &Worker{
		mappings: mappings,
		interval: interval,
		stopChan: make(chan struct{}),
		logger:   logger.Named("cleanup"),
	}
}

// Start 启动后台清理循环
func (w *Worker) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	w.mu.Unlock()

	w.logger.Info("启动过期清理任务...")
	go w.run()
}

// Stop 停止清理任务
func (w *Worker) Stop() {
	w.logger.Info("正在停止过期清理任务...")
	close(w.stopChan)
}

func (w *Worker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// 启动时先扫一遍，不等第一个周期
	w.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			w.Sweep(context.Background())
		case <-w.stopChan:
			w.logger.Info("过期清理任务已停止。")
			return
		}
	}
}

// Sweep 执行一轮清理：把 expires_at 已过的映射置为停用
func (w *Worker) Sweep(ctx context.Context) {
	expired, err := w.mappings.FindExpiringBefore(ctx, time.Now())
	if err != nil {
		w.logger.Errorf("查询过期映射失败: %v", err)
		return
	}

	var deactivated int
	for i := range expired {
		m := &expired[i]
		if !m.IsActive {
			continue
		}
		m.IsActive = false
		if err := w.mappings.Save(ctx, m); err != nil {
			w.logger.Errorf("停用过期映射失败: id=%d, err=%v", m.ID, err)
			continue
		}
		deactivated++
	}

	if deactivated > 0 {
		inactive, err := w.mappings.FindInactive(ctx)
		if err != nil {
			w.logger.Errorf("统计停用映射失败: %v", err)
			return
		}
		w.logger.Infof("本轮停用 %d 条过期映射，当前共 %d 条处于停用状态。", deactivated, len(inactive))
	}
}
