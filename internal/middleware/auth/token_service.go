package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kommerce/shop/internal/models"
	"github.com/kommerce/shop/internal/repo"
	"github.com/kommerce/shop/internal/tokens"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// TokenService resolves the authenticated identity at the request boundary
// and attaches it to the echo context, rotating the cookie pair when the
// access token has expired but the refresh token is still good.
type TokenService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// UserID reads the identity the middleware attached to the context.
func UserID(c echo.Context) (uint, error) {
	v, ok := c.Get("user_id").(uint)
	if !ok || v == 0 {
		return 0, errors.New("unauthorized")
	}
	return v, nil
}

func Role(c echo.Context) string {
	v, _ := c.Get("role").(string)
	return v
}

func setUserContext(c echo.Context, userID uint, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
}

func (t *TokenService) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, role, rotated, err := t.checkCookie(c)
		if err != nil {
			return err
		}
		if rotated != nil {
			c.SetCookie(CreateCookie(AccessCookie, rotated.access, "/", time.Now().Add(tokens.AccessTTL)))
			c.SetCookie(CreateCookie(RefreshCookie, rotated.refresh, "/", time.Now().Add(tokens.RefreshTTL)))
		}
		setUserContext(c, userID, role)
		return next(c)
	}
}

func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireLogin(func(c echo.Context) error {
		if Role(c) != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	})
}

type rotatedPair struct {
	access  string
	refresh string
}

func (t *TokenService) checkCookie(c echo.Context) (uint, string, *rotatedPair, error) {
	asCookie, err := c.Cookie(AccessCookie)
	if err == nil && asCookie.Value != "" {
		claims, parseErr := tokens.AccessClaimsFromToken(asCookie.Value, t.JWTSecret)
		if parseErr == nil {
			userID, idErr := tokens.UserID(claims.Subject)
			if idErr != nil {
				return 0, "", nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
			}
			return userID, claims.Role, nil, nil
		}
		if !errors.Is(parseErr, jwt.ErrTokenExpired) {
			return 0, "", nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
	}

	rfCookie, err := c.Cookie(RefreshCookie)
	if err != nil || rfCookie.Value == "" {
		return 0, "", nil, echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}

	userID, role, pair, err := t.rotate(c, rfCookie.Value)
	if err != nil {
		return 0, "", nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("cannot rotate token: %v", err))
	}
	return userID, role, pair, nil
}

// rotate validates the refresh token against its stored row, revokes it and
// issues a fresh cookie pair.
func (t *TokenService) rotate(c echo.Context, rawRefresh string) (uint, string, *rotatedPair, error) {
	ctx := c.Request().Context()

	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, t.RefreshSecret)
	if err != nil {
		return 0, "", nil, err
	}

	stored, err := t.Repo.FindRefreshToken(ctx, rawRefresh)
	if err != nil {
		return 0, "", nil, errors.New("refresh token not found")
	}
	if stored.Revoked {
		return 0, "", nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return 0, "", nil, errors.New("refresh token expired")
	}

	userID, err := tokens.UserID(claims.Subject)
	if err != nil {
		return 0, "", nil, err
	}

	// Role lives on the user row, not in the refresh token, so a demoted
	// admin loses access on the next rotation.
	user, err := t.Repo.FindUserByID(ctx, userID)
	if err != nil {
		return 0, "", nil, errors.New("user not found")
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	newAccess, err := tokens.SignAccess(user.ID, user.Role, t.JWTSecret, accessExp)
	if err != nil {
		return 0, "", nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	newRefresh, err := tokens.SignRefresh(user.ID, t.RefreshSecret, refreshExp)
	if err != nil {
		return 0, "", nil, err
	}

	if err := t.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		return 0, "", nil, err
	}
	if err := t.Repo.CreateRefreshToken(ctx, &models.RefreshToken{
		Token:     newRefresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}); err != nil {
		return 0, "", nil, err
	}

	return user.ID, user.Role, &rotatedPair{access: newAccess, refresh: newRefresh}, nil
}
