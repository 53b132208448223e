package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/Anuj-gif-web/helpunity-backend/config"
	models "github.com/Anuj-gif-web/helpunity-backend/models"
	services "github.com/Anuj-gif-web/helpunity-backend/services"
	"github.com/Anuj-gif-web/helpunity-backend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider stands in for Stripe. fail makes every call error.
type stubProvider struct {
	fail      bool
	accountID string
	linkURL   string
	secret    string

	gotAmount      int64
	gotDestination string
}

func (p *stubProvider) CreateAccountWithOnboardingLink(ctx context.Context) (string, string, error) {
	if p.fail {
		return "", "", fmt.Errorf("stripe unavailable")
	}
	return p.accountID, p.linkURL, nil
}

func (p *stubProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, destinationAccountID string) (string, error) {
	if p.fail {
		return "", fmt.Errorf("stripe unavailable")
	}
	p.gotAmount = amountCents
	p.gotDestination = destinationAccountID
	return p.secret, nil
}

func newPaymentsFixture(t *testing.T, provider services.PaymentProvider) (*gin.Engine, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	now := time.Now()
	err := st.Insert(context.Background(), services.CollectionUsers, models.User{
		ID:        "u1",
		Email:     "u1@example.com",
		UserType:  "organization",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	cfg := &config.Config{
		Store:    st,
		Logger:   zap.NewNop(),
		Payments: provider,
	}

	router := gin.New()
	authed := router.Group("/payments", func(c *gin.Context) {
		c.Set("user_id", "u1")
	})
	authed.POST("/create-account-link", CreateAccountLink(cfg))
	authed.POST("/create-payment-intent", CreatePaymentIntent(cfg))
	return router, st
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAccountLinkSavesAccountID(t *testing.T) {
	provider := &stubProvider{accountID: "acct_123", linkURL: "https://connect.stripe.com/setup/x"}
	router, st := newPaymentsFixture(t, provider)

	w := postJSON(t, router, "/payments/create-account-link", gin.H{"userId": "u1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != provider.linkURL {
		t.Fatalf("url = %q, want %q", resp.URL, provider.linkURL)
	}

	var user models.User
	if err := st.Get(context.Background(), services.CollectionUsers, "u1", &user); err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.StripeAccountID != "acct_123" {
		t.Fatalf("stripeAccountId = %q, want acct_123", user.StripeAccountID)
	}
}

func TestCreateAccountLinkForOtherUser(t *testing.T) {
	router, _ := newPaymentsFixture(t, &stubProvider{accountID: "acct_123"})

	w := postJSON(t, router, "/payments/create-account-link", gin.H{"userId": "someone-else"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCreateAccountLinkProviderDown(t *testing.T) {
	router, st := newPaymentsFixture(t, &stubProvider{fail: true})

	w := postJSON(t, router, "/payments/create-account-link", gin.H{"userId": "u1"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var user models.User
	if err := st.Get(context.Background(), services.CollectionUsers, "u1", &user); err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.StripeAccountID != "" {
		t.Fatalf("stripeAccountId = %q, want empty after failure", user.StripeAccountID)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	provider := &stubProvider{secret: "pi_secret_abc"}
	router, _ := newPaymentsFixture(t, provider)

	w := postJSON(t, router, "/payments/create-payment-intent", gin.H{
		"amount":             2500,
		"organizerAccountId": "acct_dest",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ClientSecret != "pi_secret_abc" {
		t.Fatalf("clientSecret = %q", resp.ClientSecret)
	}
	if provider.gotAmount != 2500 || provider.gotDestination != "acct_dest" {
		t.Fatalf("provider called with (%d, %q)", provider.gotAmount, provider.gotDestination)
	}
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	router, _ := newPaymentsFixture(t, &stubProvider{secret: "s"})

	cases := []gin.H{
		{"amount": -5, "organizerAccountId": "acct_dest"},
		{"organizerAccountId": "acct_dest"},
		{"amount": 2500},
	}
	for _, body := range cases {
		if w := postJSON(t, router, "/payments/create-payment-intent", body); w.Code != http.StatusBadRequest {
			t.Fatalf("body %v: status = %d, want 400", body, w.Code)
		}
	}
}
