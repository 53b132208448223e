package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ZeptoMail transactional-mail payload.
type zeptoMessage struct {
	From     zeptoAddress     `json:"from"`
	To       []zeptoRecipient `json:"to"`
	Subject  string           `json:"subject"`
	HtmlBody string           `json:"htmlbody"`
}

type zeptoAddress struct {
	Address string `json:"address"`
}

type zeptoRecipient struct {
	Email zeptoNamedAddress `json:"email_address"`
}

type zeptoNamedAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

var mailClient = &http.Client{Timeout: 10 * time.Second}

// SendEmail sends an HTML email through the ZeptoMail HTTP API.
// Outcome logging is left to the caller.
func SendEmail(to, subject, body string) error {
	apiURL := os.Getenv("ZEPTO_API_URL") // e.g. https://api.zeptomail.com/v1.1/email
	apiKey := os.Getenv("ZEPTO_API_KEY") // e.g. Zoho-enczapikey xxxxx
	from := os.Getenv("EMAIL_FROM")      // e.g. noreply@helpunity.app
	if apiURL == "" || apiKey == "" || from == "" {
		return fmt.Errorf("email: ZEPTO_API_URL, ZEPTO_API_KEY and EMAIL_FROM must be set")
	}

	msg := zeptoMessage{
		From:     zeptoAddress{Address: from},
		To:       []zeptoRecipient{{Email: zeptoNamedAddress{Address: to, Name: os.Getenv("EMAIL_TO_NAME")}}},
		Subject:  subject,
		HtmlBody: body,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("email: encode payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", apiKey)

	resp, err := mailClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("email: zeptomail returned %s", resp.Status)
	}
	return nil
}

// SendVerificationEmail mails the tokenized verify-email link shown
// after registration.
func SendVerificationEmail(to, verifyURL string) error {
	body := fmt.Sprintf(
		`<p>Welcome to HelpUnity!</p>
<p>Please confirm your email address to activate your account:</p>
<p><a href="%s">Verify my email</a></p>
<p>If you did not create this account you can ignore this message.</p>`,
		verifyURL,
	)
	return SendEmail(to, "Verify your HelpUnity account", body)
}
