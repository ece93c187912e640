package client

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// Chat sends one user message and returns the typed reply
func (c *APIClient) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatReply, error) {
	if req == nil || req.Message == "" {
		return nil, fmt.Errorf("chat request requires a message")
	}

	var reply types.ChatReply
	if err := c.do(ctx, consts.MethodPost, endpointChat, nil, jsonBody(req), &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
