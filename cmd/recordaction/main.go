package main

import (
	"context"
	"fmt"
	"os"

	"EventBoard/internal/config"
	"EventBoard/internal/model"
	"EventBoard/internal/repository"
	"EventBoard/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordaction 人工操作记录命令行工具：
//
//	recordaction --event-id=<uuid> --event-type=hackathon --action=reached_out
//	recordaction --event-id=<uuid> --event-type=conference --list
var (
	flagEventID   string
	flagEventType string
	flagAction    string
	flagList      bool
)

func main() {
	root := &cobra.Command{
		Use:   "recordaction",
		Short: "记录或查询事件的人工操作",
		RunE:  run,
	}
	root.Flags().StringVar(&flagEventID, "event-id", "", "事件UUID（必填）")
	root.Flags().StringVar(&flagEventType, "event-type", "", "事件类型：hackathon/conference（必填）")
	root.Flags().StringVar(&flagAction, "action", "", "操作类型：archive/reached_out")
	root.Flags().BoolVar(&flagList, "list", false, "只查询该事件当前的最新操作")
	_ = root.MarkFlagRequired("event-id")
	_ = root.MarkFlagRequired("event-type")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("加载配置文件失败: %w", err)
	}

	logrusLogger := logrus.New()
	logrusLogger.SetLevel(logrus.WarnLevel) // CLI 输出走标准输出，日志只留告警

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("连接PostgreSQL失败: %w", err)
	}
	// 表不存在则创建（与服务端保持同一套模型）
	if err := db.AutoMigrate(&model.EventAction{}); err != nil {
		return fmt.Errorf("数据库表结构迁移失败: %w", err)
	}

	svc := service.NewActionService(repository.NewActionRepository(db), logrusLogger)
	ctx := context.Background()

	if flagList {
		action, err := svc.Latest(ctx, flagEventID, flagEventType)
		if err != nil {
			return err
		}
		if action == nil {
			fmt.Printf("事件 %s 暂无操作记录\n", flagEventID)
			return nil
		}
		fmt.Printf("事件 %s (%s) 最新操作: %s @ %s\n",
			action.EventID, action.EventType, action.Action, action.Timestamp.Format("2006-01-02 15:04:05"))
		return nil
	}

	if flagAction == "" {
		return fmt.Errorf("非 --list 模式下 --action 必填")
	}
	record, err := svc.Record(ctx, flagEventID, flagEventType, flagAction)
	if err != nil {
		return err
	}
	fmt.Printf("已记录操作: %s -> %s (%s) @ %s\n",
		record.Action, record.EventID, record.EventType, record.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}
