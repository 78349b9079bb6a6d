package main

import (
	"log"

	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/handler"
	"github.com/inkwell/internal/router"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 保证至少存在一个管理员账号
	if err := db.EnsureAdmin(gdb, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	api := handler.NewAPI(gdb, cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AdminAccessToken)

	// 设置并运行 Gin 服务器
	r := router.Setup(api, cfg.SessionSecret, cfg.GinMode)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
