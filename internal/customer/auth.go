package customer

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	claimCustomerID = "customer_id"
	claimEmail      = "email"
	claimAdmin      = "admin"
)

// Middleware validates bearer tokens and stores the parsed *jwt.Token in
// c.Locals("user").
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized"})
		},
	})
}

// IssueToken signs an HS256 token carrying the customer's identity.
func IssueToken(secret string, ttl time.Duration, c Customer) (string, error) {
	claims := jwt.MapClaims{
		claimCustomerID: c.ID,
		claimEmail:      c.Email,
		claimAdmin:      c.IsAdmin,
		"exp":           time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

// GetCustomerIDFromCtx extracts the customer_id claim from the JWT token
// stored in c.Locals("user"). Handlers use it as the only source of identity.
func GetCustomerIDFromCtx(c *fiber.Ctx) (int, error) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	raw, ok := claims[claimCustomerID]
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	var id int
	switch v := raw.(type) {
	case float64:
		id = int(v)
	case int:
		id = v
	case int64:
		id = int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fiber.ErrUnauthorized
		}
		id = n
	default:
		return 0, fiber.ErrUnauthorized
	}
	if id <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}

// RequireAdmin rejects requests whose token lacks the admin claim.
func RequireAdmin(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized"})
	}
	if admin, _ := claims[claimAdmin].(bool); !admin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admin access required"})
	}
	return c.Next()
}
