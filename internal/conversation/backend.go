// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"

	"github.com/jeranaias/rigchat/internal/api"
	"github.com/jeranaias/rigchat/internal/model"
)

// Backend is the remote collaborator the controller talks to.
type Backend interface {
	ListModels(ctx context.Context) ([]string, error)
	SelectModel(ctx context.Context, modelName string) error
	ListSessions(ctx context.Context) ([]model.Session, error)
	GetSession(ctx context.Context, sessionID string) ([]model.Message, error)
	CreateSession(ctx context.Context, sessionID, modelName string) error
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	CreateMemory(ctx context.Context, sessionID, name string) error
}

var _ Backend = (*api.Client)(nil)
