package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/easyq-blog/internal/app"
	"github.com/easyq-blog/internal/config"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	var hashPassword string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.StringVar(&hashPassword, "hash-password", "", "输出口令的 bcrypt 哈希后退出，用于 admin.password_hash")
	flag.Parse()

	if hashPassword != "" {
		hash, err := service.HashPassword(hashPassword)
		if err != nil {
			fmt.Fprintf(os.Stderr, "hash password failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	printStartupBanner()

	// .env 先于配置文件加载，供 AutomaticEnv 读取
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env failed: %v\n", err)
	}

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.JWT.SecretKey) {
			stdLog.Fatalf("JWT secret 过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.JWT.SecretKey) {
		stdLog.Printf("警告: JWT secret 过弱或仍为默认值，建议在生产环境中更换")
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		stdLog.Printf("警告: 未配置 admin.password 或 admin.password_hash，管理员登录将全部失败")
	}
	if strings.TrimSpace(cfg.Revalidate.Secret) == "" {
		stdLog.Printf("提示: 未配置 revalidate.secret，写操作后不会触发页面刷新")
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "EasyQ Blog API" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
