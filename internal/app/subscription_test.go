package app

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret, status string) string {
	t.Helper()
	claims := jwt.MapClaims{}
	if status != "" {
		claims["subscription_status"] = status
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestCheckSubscription(t *testing.T) {
	a := newTestApp(testDeps{})

	t.Run("EmptyToken", func(t *testing.T) {
		status, err := a.CheckSubscription("")
		if err != nil || status != SubscriptionFree {
			t.Errorf("expected free tier, got %q (%v)", status, err)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		status, err := a.CheckSubscription(signedToken(t, "test-secret", "premium"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if status != "premium" {
			t.Errorf("expected premium, got %q", status)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		status, err := a.CheckSubscription(signedToken(t, "other-secret", "premium"))
		if err != nil {
			t.Fatalf("invalid tokens are not an error, got %v", err)
		}
		if status != SubscriptionFree {
			t.Errorf("expected free tier for a forged token, got %q", status)
		}
	})

	t.Run("MissingClaim", func(t *testing.T) {
		status, err := a.CheckSubscription(signedToken(t, "test-secret", ""))
		if err != nil || status != SubscriptionFree {
			t.Errorf("expected free tier without the claim, got %q (%v)", status, err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		status, err := a.CheckSubscription("not-a-jwt")
		if err != nil || status != SubscriptionFree {
			t.Errorf("expected free tier for garbage input, got %q (%v)", status, err)
		}
	})
}
