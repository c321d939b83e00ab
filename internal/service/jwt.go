package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

func InitJWT() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// GenerateGameToken signs a seat claim: one token authorizes one color in
// one game. Tokens outlive any realistic match length.
func GenerateGameToken(gameID, color string) (string, error) {
	now := time.Now().Unix()
	claims := jwt.MapClaims{
		"game":  gameID,
		"color": color,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   now,
		"nbf":   now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseGameToken validates a seat token and returns its game id and color.
func ParseGameToken(tokenString string) (gameID, color string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}

	now := time.Now().Unix()
	if exp, ok := claims["exp"].(float64); ok {
		if int64(exp) < now {
			return "", "", errors.New("token expired")
		}
	}
	if nbf, ok := claims["nbf"].(float64); ok {
		if int64(nbf) > now {
			return "", "", errors.New("token not valid yet")
		}
	}

	gameID, ok = claims["game"].(string)
	if !ok || gameID == "" {
		return "", "", errors.New("game claim not found")
	}
	color, ok = claims["color"].(string)
	if !ok || color == "" {
		return "", "", errors.New("color claim not found")
	}

	return gameID, color, nil
}
