package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"meta_chat/internal/common"
	"meta_chat/internal/global"
	"meta_chat/internal/logger"
)

// Các role được hỗ trợ trong token
const (
	RoleAgent = "agent" // Agent chăm sóc hội thoại
	RoleAdmin = "admin" // Quản trị hệ thống
)

// TokenClaims là claims của JWT do hệ thống phát hành
type TokenClaims struct {
	UserId string `json:"userId"` // Định danh người dùng
	Role   string `json:"role"`   // agent | admin
	jwt.RegisteredClaims
}

// AuthMiddleware xác thực JWT Bearer token và kiểm tra role.
// requiredRole rỗng = chỉ cần đăng nhập; admin luôn qua được mọi role check.
// Khi hợp lệ, user_id và role được đặt vào Locals cho handler phía sau.
func AuthMiddleware(requiredRole string) fiber.Handler {
	return func(c fiber.Ctx) error {
		log := logger.GetAppLogger()

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		claims := &TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("phương thức ký '%v' không được hỗ trợ", t.Header["alg"])
			}
			return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
		})
		if err != nil {
			log.WithError(err).Debug("🔐 [AUTH] Token không hợp lệ")
			if strings.Contains(err.Error(), "expired") {
				HandleErrorResponse(c, common.ErrTokenExpired)
				return nil
			}
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}
		if !token.Valid || claims.UserId == "" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if requiredRole != "" && claims.Role != requiredRole && claims.Role != RoleAdmin {
			HandleErrorResponse(c, common.NewError(common.ErrCodeAuthToken,
				"Không đủ quyền truy cập tài nguyên này", common.StatusForbidden, nil))
			return nil
		}

		c.Locals("user_id", claims.UserId)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}
