package app

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SubscriptionFree is reported whenever no valid subscription claim is
// presented.
const SubscriptionFree = "free"

// CheckSubscription verifies an HS256 token from the client and returns
// the subscription status claim. Missing or invalid tokens are not an
// error: the caller is simply on the free tier.
func (a *App) CheckSubscription(tokenString string) (string, error) {
	if tokenString == "" || a.jwtSecret == "" {
		return SubscriptionFree, nil
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.jwtSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		a.log.Warn("subscription token rejected", "error", err)
		return SubscriptionFree, nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SubscriptionFree, nil
	}
	status, _ := claims["subscription_status"].(string)
	if status == "" {
		return SubscriptionFree, nil
	}
	return status, nil
}
