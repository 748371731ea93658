package main

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"my-blog-api/pkg/common/config"
	postmodel "my-blog-api/pkg/core/post/model"
	postdao "my-blog-api/pkg/core/post/repository/dao/impl"
	usermodel "my-blog-api/pkg/core/user/model"
	userdao "my-blog-api/pkg/core/user/repository/dao/impl"
	"my-blog-api/pkg/web/router"
)

func main() {
	// 初始化配置
	cfg := config.Load()

	// 初始化数据库连接
	db, err := cfg.InitDB()
	if err != nil {
		panic("Failed to initialize database: " + err.Error())
	}

	// 建表/迁移
	if err := usermodel.AutoMigrate(db); err != nil {
		panic("Failed to migrate user schema: " + err.Error())
	}
	if err := postmodel.AutoMigrate(db); err != nil {
		panic("Failed to migrate post schema: " + err.Error())
	}

	// 构造存储层，显式注入
	userRepo := userdao.NewGormUserRepository(db)
	postRepo := postdao.NewGormPostRepository(db)

	// 创建Hertz实例
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)

	// 注册路由
	router.RegisterAPIs(h, cfg, userRepo, postRepo, db)

	hlog.Infof("server listening on %s (env=%s)", cfg.Server.Address, cfg.Env)

	// 启动服务
	h.Spin()
}
