package messaging

import (
	"context"
	"fmt"

	"vaccine-reminder-backend/config"
	"vaccine-reminder-backend/internal/domain/gateway"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// FCMClient sends push notifications through Firebase Cloud Messaging. The
// firebase app is constructed once here and injected where needed; there is
// no package-level singleton.
type FCMClient struct {
	client *messaging.Client
	log    *logrus.Logger
}

func NewFCMClient(ctx context.Context, cfg config.FirebaseConfig, log *logrus.Logger) (gateway.PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase messaging: %w", err)
	}

	log.Info("Firebase messaging client initialized")

	return &FCMClient{client: client, log: log}, nil
}

func (c *FCMClient) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
	}

	messageID, err := c.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return messageID, nil
}
