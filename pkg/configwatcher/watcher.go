package configwatcher

import (
	"context"
	"fmt"
	"nihongolab_backend/internal/config"
	"nihongolab_backend/pkg/logger"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const configFile = "config.yaml"

type ReloadFunc func(cfg *config.Config)

// Watcher 监听配置目录，config.yaml 变更后防抖重载
type Watcher struct {
	dir      string
	debounce time.Duration
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
}

func New(dir string, onReload ReloadFunc) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	// 监听目录而不是文件，编辑器保存时常以 rename 方式替换文件
	if err := fw.Add(absDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	return &Watcher{
		dir:      absDir,
		debounce: time.Second,
		onReload: onReload,
		watcher:  fw,
	}, nil
}

// Run 阻塞直到 ctx 取消
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := config.LoadConfig(w.dir)
	if err != nil {
		logger.Log.Error("Failed to reload config", zap.Error(err))
		return
	}
	logger.Log.Info("配置已重新加载", zap.String("dir", w.dir))
	w.onReload(cfg)
}
