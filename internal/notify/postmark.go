package notify

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/hexalock/internal/errors"
	"github.com/PolarWolf314/hexalock/internal/utils"
	"github.com/mrz1836/postmark"
)

// PostmarkConfig holds the credentials and sender identity for Postmark.
type PostmarkConfig struct {
	ServerToken  string `toml:"server_token" env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `toml:"account_token" env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail  string `toml:"sender_email" env:"SENDER_EMAIL"`
}

// Validate checks every field needed to send is present.
func (c PostmarkConfig) Validate() error {
	if c.ServerToken == "" {
		return fmt.Errorf("%w: postmark server token is required", kerrors.ErrInvalidConfig)
	}
	if c.AccountToken == "" {
		return fmt.Errorf("%w: postmark account token is required", kerrors.ErrInvalidConfig)
	}
	if !utils.IsValidEmail(c.SenderEmail) {
		return fmt.Errorf("%w: sender email %q is not a valid email address", kerrors.ErrInvalidConfig, c.SenderEmail)
	}
	return nil
}

// PostmarkSender delivers messages through Postmark.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender validates cfg and returns a sender.
func NewPostmarkSender(cfg PostmarkConfig) (*PostmarkSender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:   cfg.SenderEmail,
	}, nil
}

func (p *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if !utils.IsValidEmail(msg.To) {
		return fmt.Errorf("%w: %q is not a valid email address", kerrors.ErrInvalidInput, msg.To)
	}

	resp, err := p.client.SendEmail(ctx, postmark.Email{
		From:     p.from,
		To:       msg.To,
		Subject:  msg.Subject,
		Tag:      msg.Tag,
		TextBody: msg.Body,
	})
	if err != nil {
		return errors.Join(kerrors.ErrNotify, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(kerrors.ErrNotify, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
