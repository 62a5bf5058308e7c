package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ldelai/rapportino/internal/model"
)

// Parser validates HS256 access tokens and extracts the principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(tokenString string) (model.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return model.Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.Principal{}, fmt.Errorf("invalid token claims")
	}

	principal := model.Principal{}
	if sub, ok := claims["sub"].(string); ok {
		principal.UserID = sub
	}
	if name, ok := claims["name"].(string); ok {
		principal.Name = name
	}
	if principal.UserID == "" {
		return model.Principal{}, fmt.Errorf("token has no subject")
	}
	return principal, nil
}
