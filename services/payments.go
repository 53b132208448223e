package services

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/account"
	"github.com/stripe/stripe-go/v78/accountlink"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// PaymentProvider is the slice of the payment processor the relay
// endpoints forward to.
type PaymentProvider interface {
	// CreateAccountWithOnboardingLink creates a connected account and
	// returns its id together with the hosted onboarding URL.
	CreateAccountWithOnboardingLink(ctx context.Context) (accountID, url string, err error)

	// CreatePaymentIntent creates a destination-charge intent and
	// returns its client secret.
	CreatePaymentIntent(ctx context.Context, amountCents int64, destinationAccountID string) (clientSecret string, err error)
}

// StripeProvider implements PaymentProvider against Stripe.
type StripeProvider struct {
	refreshURL string
	returnURL  string
}

func NewStripeProvider(secretKey, refreshURL, returnURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{refreshURL: refreshURL, returnURL: returnURL}
}

func (p *StripeProvider) CreateAccountWithOnboardingLink(ctx context.Context) (string, string, error) {
	acct, err := account.New(&stripe.AccountParams{
		Params: stripe.Params{Context: ctx},
		Type:   stripe.String(string(stripe.AccountTypeStandard)),
	})
	if err != nil {
		return "", "", err
	}

	link, err := accountlink.New(&stripe.AccountLinkParams{
		Params:     stripe.Params{Context: ctx},
		Account:    stripe.String(acct.ID),
		RefreshURL: stripe.String(p.refreshURL),
		ReturnURL:  stripe.String(p.returnURL),
		Type:       stripe.String("account_onboarding"),
	})
	if err != nil {
		return "", "", err
	}
	return acct.ID, link.URL, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, destinationAccountID string) (string, error) {
	intent, err := paymentintent.New(&stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(destinationAccountID),
		},
	})
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
