package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/repositories/messages"
	"github.com/messagely/messagely/internal/server/repositories/users"
)

// MessageService assembles message records with their sender/recipient
// summaries resolved at read time, and owns the single state transition a
// message has: unread to read.
type MessageService struct {
	repo  messages.Repository
	users users.Repository
}

func NewMessageService(repo messages.Repository, userRepo users.Repository) *MessageService {
	return &MessageService{repo: repo, users: userRepo}
}

// Send stores a new message from fromUsername to toUsername. The recipient
// is checked first so an unknown recipient fails fast with
// common.ErrorNotFound instead of surfacing a foreign-key violation.
// fromUsername is the authenticated caller identity, never client input.
func (s *MessageService) Send(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error) {

	if _, err := s.users.GetByUsername(ctx, toUsername); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error checking recipient: %w", err)
	}

	msg := &models.Message{
		FromUsername: fromUsername,
		ToUsername:   toUsername,
		Body:         body,
	}

	msg, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}

	return msg, nil
}

// Get returns the message with both sides resolved to user summaries.
func (s *MessageService) Get(ctx context.Context, id int64) (*models.MessageDetail, error) {

	msg, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fromUser, err := s.users.GetByUsername(ctx, msg.FromUsername)
	if err != nil {
		return nil, fmt.Errorf("error resolving sender %q: %w", msg.FromUsername, err)
	}

	toUser, err := s.users.GetByUsername(ctx, msg.ToUsername)
	if err != nil {
		return nil, fmt.Errorf("error resolving recipient %q: %w", msg.ToUsername, err)
	}

	return &models.MessageDetail{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: fromUser.Summary(),
		ToUser:   toUser.Summary(),
	}, nil
}

// MarkRead stamps the read timestamp. The first receipt wins; marking an
// already-read message returns the original timestamp.
func (s *MessageService) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	return s.repo.MarkRead(ctx, id)
}

// Inbox returns the messages addressed to username with each sender resolved.
func (s *MessageService) Inbox(ctx context.Context, username string) ([]models.InboxMessage, error) {

	msgs, err := s.repo.ToUser(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]models.InboxMessage, 0, len(msgs))
	for _, m := range msgs {
		fromUser, err := s.users.GetByUsername(ctx, m.FromUsername)
		if err != nil {
			return nil, fmt.Errorf("error resolving sender %q: %w", m.FromUsername, err)
		}
		result = append(result, models.InboxMessage{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: fromUser.Summary(),
		})
	}

	return result, nil
}

// Outbox returns the messages sent by username with each recipient resolved.
func (s *MessageService) Outbox(ctx context.Context, username string) ([]models.OutboxMessage, error) {

	msgs, err := s.repo.FromUser(ctx, username)
	if err != nil {
		return nil, err
	}

	result := make([]models.OutboxMessage, 0, len(msgs))
	for _, m := range msgs {
		toUser, err := s.users.GetByUsername(ctx, m.ToUsername)
		if err != nil {
			return nil, fmt.Errorf("error resolving recipient %q: %w", m.ToUsername, err)
		}
		result = append(result, models.OutboxMessage{
			ID:     m.ID,
			Body:   m.Body,
			SentAt: m.SentAt,
			ReadAt: m.ReadAt,
			ToUser: toUser.Summary(),
		})
	}

	return result, nil
}
