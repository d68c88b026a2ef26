package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler 收到 SIGINT / SIGTERM 时取消返回的 context，再次收到信号直接退出。
// 只能调用一次
func SetupSignalHandler() context.Context {
	close(onlyOneSignalHandler) // 第二次调用会 panic

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-c
		zap.S().Warnf("收到信号 %s，正在停止检查...", sig)
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
