package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"

	"github.com/mazraa/mazraa-metrics/internal/analytics"
	"github.com/mazraa/mazraa-metrics/internal/common/config"
	"github.com/mazraa/mazraa-metrics/internal/common/db"
	"github.com/mazraa/mazraa-metrics/internal/common/logger"
	"github.com/mazraa/mazraa-metrics/internal/order"
)

// region-backfill 一次性迁移工具：给 region_code 为空的历史订单
// 回填省份编码。解析失败的订单也写入默认编码，保证跑完一遍后
// 启发式解析彻底退出线上读路径。

var (
	configPath = flag.String("config", "configs/metrics-service.json", "配置文件路径")
	batchSize  = flag.Int("batch", 500, "每批处理的订单数")
	dryRun     = flag.Bool("dry-run", false, "只统计不写库")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(logger.Options{
		Driver: cfg.Log.Driver,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	log = log.WithField("run_id", uuid.New().String())

	gormDB, err := db.NewMySQL(
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Database,
		cfg.Database.MaxIdle,
		cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("failed to init mysql: %v", err)
	}

	repo := order.NewRepo(gormDB)
	ctx := context.Background()

	var scanned, updated, fallback, failed int
	offset := 0
	for {
		orders, err := repo.ListMissingRegion(ctx, offset, *batchSize)
		if err != nil {
			log.Fatalf("failed to list orders: %v", err)
		}
		if len(orders) == 0 {
			break
		}

		batchFailed := 0
		for _, o := range orders {
			scanned++
			code := analytics.ParseRegionCode(o.WilayaAddress)
			if code == analytics.FallbackRegionCode {
				fallback++
			}
			if *dryRun {
				continue
			}
			if err := repo.UpdateRegionCode(ctx, o.ID, code); err != nil {
				failed++
				batchFailed++
				log.Warnf("failed to backfill order %s: %v", o.ID, err)
				continue
			}
			updated++
		}

		if *dryRun {
			// dry-run 不写库，靠 offset 前进
			offset += len(orders)
		} else {
			// 已更新的行会离开查询集，只需跳过本批写失败的行
			offset += batchFailed
		}
	}

	log.WithFields(map[string]interface{}{
		"scanned":  scanned,
		"updated":  updated,
		"fallback": fallback,
		"failed":   failed,
		"dry_run":  *dryRun,
	}).Info("region backfill finished")
}
