package main

import (
	"log"
	"os"
	"time"

	"gridchat/internal/api"
	"gridchat/internal/assets"
	"gridchat/internal/auth"
	"gridchat/internal/config"
	"gridchat/internal/provider"
	"gridchat/internal/redis"
	"gridchat/internal/service/chat"
	"gridchat/internal/sheet"
	"gridchat/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := os.Getenv("GRIDCHAT_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("GRIDCHAT_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("create redis client: %v", err)
	}
	defer rdb.Close()

	// Create necessary tables: users, bots, threads, messages
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	sheetService := sheet.NewService(cfg.Sheet, rdb)
	assetManager := assets.NewManager(cfg.BasicConfig.AssetDir)
	providers := provider.NewRegistry(cfg)
	chatService := chat.NewService(db, sheetService, assetManager, providers)

	authService := auth.NewService(rdb, 24*time.Hour)

	fileBase := cfg.BasicConfig.FileBaseDir
	if fileBase == "" {
		fileBase = "./data/uploads"
	}
	uploadLimit := cfg.BasicConfig.UploadLimitMB << 20
	handlers := api.NewHandler(chatService, authService, fileBase, uploadLimit)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}

	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
