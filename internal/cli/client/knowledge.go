package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// CreateKnowledgeBase creates a new knowledge base
func (c *APIClient) CreateKnowledgeBase(ctx context.Context, req *types.CreateKnowledgeBaseRequest) (*types.KnowledgeBase, error) {
	var kb types.KnowledgeBase
	if err := c.do(ctx, consts.MethodPost, endpointKnowledgeBases, nil, jsonBody(req), &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// ListKnowledgeBases lists knowledge bases, optionally filtered by status
func (c *APIClient) ListKnowledgeBases(ctx context.Context, opts types.ListKnowledgeBasesOptions) ([]types.KnowledgeBase, error) {
	var query url.Values
	if opts.Status != "" {
		query = url.Values{"status": []string{opts.Status}}
	}

	var kbs []types.KnowledgeBase
	if err := c.do(ctx, consts.MethodGet, endpointKnowledgeBases, query, nil, &kbs); err != nil {
		return nil, err
	}
	return kbs, nil
}

// GetKnowledgeBase gets a single knowledge base
func (c *APIClient) GetKnowledgeBase(ctx context.Context, id string) (*types.KnowledgeBase, error) {
	var kb types.KnowledgeBase
	path := fmt.Sprintf(endpointKnowledgeBaseByID, url.PathEscape(id))
	if err := c.do(ctx, consts.MethodGet, path, nil, nil, &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// UpdateKnowledgeBase applies a partial update
func (c *APIClient) UpdateKnowledgeBase(ctx context.Context, id string, req *types.UpdateKnowledgeBaseRequest) (*types.KnowledgeBase, error) {
	var kb types.KnowledgeBase
	path := fmt.Sprintf(endpointKnowledgeBaseByID, url.PathEscape(id))
	if err := c.do(ctx, consts.MethodPut, path, nil, jsonBody(req), &kb); err != nil {
		return nil, err
	}
	return &kb, nil
}

// DeleteKnowledgeBase deletes a knowledge base.
// hardDelete selects between the backend's soft and hard delete.
func (c *APIClient) DeleteKnowledgeBase(ctx context.Context, id string, hardDelete bool) error {
	path := fmt.Sprintf(endpointKnowledgeBaseByID, url.PathEscape(id))
	query := url.Values{"hard_delete": []string{strconv.FormatBool(hardDelete)}}
	return c.do(ctx, consts.MethodDelete, path, query, nil, nil)
}
