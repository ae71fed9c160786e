package mail

import (
	"context"
	"errors"
)

// Message is a single outbound HTML email.
type Message struct {
	FromName  string `json:"fromName"`
	FromEmail string `json:"fromEmail"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	HTML      string `json:"html"`
}

func (m Message) validate() error {
	if m.To == "" || m.Subject == "" || m.HTML == "" {
		return errors.New("mail: recipient, subject and body are required")
	}
	return nil
}

// Sender delivers messages. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
