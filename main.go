package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"askgate/internal/api"
	"askgate/internal/config"
	"askgate/internal/docindex"
	"askgate/internal/gateway"
	"askgate/internal/intent"
	"askgate/internal/llm"
	"askgate/internal/memory"
	"askgate/internal/responder"
	"askgate/internal/search"
	"askgate/internal/storage"
)

func main() {
	cfgPath := os.Getenv("ASKGATE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbType := os.Getenv("ASKGATE_DB")
	if dbType == "" {
		dbType = "sqlite3"
	}
	log.Printf("dbType: %s\n", dbType)
	db, err := storage.Open(dbType, cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := storage.Migrate(db, dbType); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx := context.Background()

	var index *docindex.BleveIndex
	if cfg.Documents.IndexPath != "" {
		index, err = docindex.Open(cfg.Documents.IndexPath)
	} else {
		index, err = docindex.OpenMemOnly()
	}
	if err != nil {
		log.Fatalf("open document index: %v", err)
	}
	defer index.Close()
	if dir := cfg.Documents.SourceDir; dir != "" {
		count, err := index.Ingest(ctx, dir)
		if err != nil {
			log.Fatalf("ingest documents: %v", err)
		}
		log.Printf("indexed %d documents from %s", count, dir)
	}

	var store memory.Store
	if cfg.Redis.Enabled {
		redisStore, err := memory.NewRedisStore(cfg)
		if err != nil {
			log.Fatalf("create redis store: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = memory.NewInMemoryStore()
	}

	completer, err := llm.NewClient(ctx, cfg, cfg.BasicConfig.Provider, cfg.BasicConfig.Model)
	if err != nil {
		log.Fatalf("init llm client: %v", err)
	}

	webProvider, err := search.NewWebProvider(cfg.Search.MaxResults)
	if err != nil {
		log.Fatalf("init web search: %v", err)
	}

	webResponder := responder.NewWebResponder(webProvider, cfg.Search.MaxResults)
	responders := responder.Registry{
		intent.CategorySQL:      responder.NewSQLResponder(completer, db, ""),
		intent.CategoryPolicy:   responder.NewPolicyResponder(index, webResponder, cfg.Documents.BaseURL),
		intent.CategoryTravel:   responder.NewTravelResponder(completer),
		intent.CategoryInternet: webResponder,
	}

	gw := gateway.New(store, responders, cfg.BasicConfig.MaxConcurrent)
	handler := api.NewHandler(gw, cfg.BasicConfig.StaticDir)

	router := gin.Default()
	handler.RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":5500"
	}
	if err := router.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
