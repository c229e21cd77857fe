package global

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"meta_chat/config"
	"meta_chat/internal/registry"
)

// MongoDB_Chat_CollectionName chứa tên các collection trong MongoDB
type MongoDB_Chat_CollectionName struct {
	ChatConversations  string // Tên collection cho hội thoại
	ChatMessages       string // Tên collection cho tin nhắn
	WebhookLogs        string // Tên collection cho log webhook thô
	WebhookDeadLetters string // Tên collection cho webhook xử lý thất bại
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var MongoDB_ColNames MongoDB_Chat_CollectionName = *new(MongoDB_Chat_CollectionName)

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
