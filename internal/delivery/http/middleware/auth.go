package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/pkg/utils"
	"github.com/listing-service/internal/usecase"
	"go.uber.org/zap"
)

const (
	localsActor   = "actor"
	localsListing = "listing"

	// LoginPath - куда отправляется неаутентифицированный клиент
	LoginPath = "/login"
	// ListingsPath - индекс объявлений
	ListingsPath = "/api/v1/listings"
)

// Claims - ожидаемые claims JWT, выданного внешним identity provider
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Identity извлекает актора из "Authorization: Bearer <token>".
// Без заголовка запрос анонимный; невалидный токен - 401.
func Identity(secret string, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(localsActor, domain.Actor{})
			return c.Next()
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			logger.Debug("Invalid authorization header format", zap.String("path", c.Path()))
			return utils.SendError(c, errors.ErrUnauthenticated.WithMessage("authorization token format is invalid, expected 'Bearer <token>'"))
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			logger.Debug("Token validation failed", zap.String("path", c.Path()), zap.Error(err))
			if stderrors.Is(err, jwt.ErrTokenExpired) {
				return utils.SendError(c, errors.ErrUnauthenticated.WithMessage("token has expired"))
			}
			return utils.SendError(c, errors.ErrUnauthenticated.WithMessage("token is invalid"))
		}

		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}
		if userID == "" {
			return utils.SendError(c, errors.ErrUnauthenticated.WithMessage("user id not found in token claims"))
		}

		c.Locals(localsActor, domain.Actor{ID: userID})
		return c.Next()
	}
}

// ActorFrom возвращает актора запроса (пустой, если Identity не выполнялся)
func ActorFrom(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(localsActor).(domain.Actor)
	return actor
}

// RequireAuth пропускает только аутентифицированные запросы
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !ActorFrom(c).Authenticated() {
			return sendLoginRedirect(c)
		}
		return c.Next()
	}
}

// RequireListingOwner пропускает только владельца объявления :id и кладёт
// загруженное объявление в locals
func RequireListingOwner(guard *usecase.ListingGuard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		listing, err := guard.Authorize(c.Context(), ActorFrom(c), id)
		switch {
		case err == nil:
			c.Locals(localsListing, listing)
			return c.Next()
		case stderrors.Is(err, errors.ErrUnauthenticated):
			return sendLoginRedirect(c)
		case stderrors.Is(err, errors.ErrListingNotFound):
			return SendNotFoundRedirect(c)
		case stderrors.Is(err, errors.ErrForbidden):
			return utils.SendRedirect(c, fiber.StatusForbidden, ListingsPath+"/"+id, errors.ErrForbidden,
				domain.ErrorNotice(errors.ErrForbidden.Message))
		default:
			return utils.SendError(c, err)
		}
	}
}

// ListingFrom возвращает объявление, авторизованное RequireListingOwner
func ListingFrom(c *fiber.Ctx) *domain.Listing {
	listing, _ := c.Locals(localsListing).(*domain.Listing)
	return listing
}

// SendNotFoundRedirect - 303 на индекс с уведомлением "Listing not found!"
func SendNotFoundRedirect(c *fiber.Ctx) error {
	return utils.SendRedirect(c, fiber.StatusSeeOther, ListingsPath, errors.ErrListingNotFound,
		domain.ErrorNotice(usecase.NoticeListingNotFound))
}

func sendLoginRedirect(c *fiber.Ctx) error {
	appErr := errors.ErrUnauthenticated.WithMessage(usecase.NoticeLoginToCreate)
	return utils.SendRedirect(c, fiber.StatusUnauthorized, LoginPath, appErr,
		domain.ErrorNotice(usecase.NoticeLoginToCreate))
}
