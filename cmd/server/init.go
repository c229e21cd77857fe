package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"meta_chat/config"
	"meta_chat/internal/api/events"
	"meta_chat/internal/database"
	"meta_chat/internal/global"
	"meta_chat/internal/logger"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initDataChangeAudit()  // Khởi tạo audit log cho thay đổi dữ liệu
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.ChatConversations = "chat_conversations"
	global.MongoDB_ColNames.ChatMessages = "chat_messages"
	global.MongoDB_ColNames.WebhookLogs = "webhook_logs"
	global.MongoDB_ColNames.WebhookDeadLetters = "webhook_dead_letters"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo index cho các collection chat/webhook
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName_Chat
	db := global.MongoDB_Session.Database(dbName)
	if err := database.CreateChatIndexes(context.TODO(), db); err != nil {
		logrus.Fatalf("Failed to create chat indexes: %v", err)
	}
	logrus.Info("Ensured chat indexes")
}

// Hàm đăng ký audit log cho mọi thao tác CRUD thành công.
// BaseServiceMongoImpl phát DataChangeEvent sau mỗi thao tác; handler này
// ghi lại collection, loại thao tác và conversationId (nếu có) vào audit log.
func initDataChangeAudit() {
	events.OnDataChanged(func(ctx context.Context, e events.DataChangeEvent) {
		fields := map[string]interface{}{
			"collection": e.CollectionName,
			"operation":  e.Operation,
		}
		if conversationId := events.GetStringField(e.Document, "ConversationId"); conversationId != "" {
			fields["conversationId"] = conversationId
		}
		if timestamp := events.GetInt64Field(e.Document, "Timestamp"); timestamp > 0 {
			fields["timestamp"] = timestamp
		}
		logger.GetAuditLogger().WithFields(fields).Info("Data changed")
	})

	logrus.Info("Initialized data change audit") // Ghi log thông báo đã đăng ký audit handler
}
