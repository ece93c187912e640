package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// ListDocuments lists the documents of a knowledge base
func (c *APIClient) ListDocuments(ctx context.Context, kbID string) ([]types.Document, error) {
	var docs []types.Document
	path := fmt.Sprintf(endpointDocumentsByBase, url.PathEscape(kbID))
	if err := c.do(ctx, consts.MethodGet, path, nil, nil, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []types.Document{}
	}
	return docs, nil
}

// GetDocument gets a single document
func (c *APIClient) GetDocument(ctx context.Context, docID string) (*types.Document, error) {
	var doc types.Document
	path := fmt.Sprintf(endpointDocumentByID, url.PathEscape(docID))
	if err := c.do(ctx, consts.MethodGet, path, nil, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UploadDocument uploads a file as multipart form data (file, title, description).
// Callers validate the file before calling; this method does not.
func (c *APIClient) UploadDocument(ctx context.Context, kbID string, upload *types.UploadRequest) (*types.Document, error) {
	if upload == nil || upload.Reader == nil {
		return nil, fmt.Errorf("upload requires a file")
	}

	build := func(req *protocol.Request) error {
		fields := make(map[string]string)
		if upload.Title != "" {
			fields["title"] = upload.Title
		}
		if upload.Description != "" {
			fields["description"] = upload.Description
		}
		if len(fields) > 0 {
			req.SetMultipartFormData(fields)
		}
		req.SetFileReader("file", upload.Filename, upload.Reader)
		return nil
	}

	var doc types.Document
	path := fmt.Sprintf(endpointDocumentUpload, url.PathEscape(kbID))
	if err := c.do(ctx, consts.MethodPost, path, nil, build, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument deletes a document
func (c *APIClient) DeleteDocument(ctx context.Context, docID string) (*types.MessageResponse, error) {
	var ack types.MessageResponse
	path := fmt.Sprintf(endpointDocumentByID, url.PathEscape(docID))
	if err := c.do(ctx, consts.MethodDelete, path, nil, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ProcessDocument asks the backend to start the parse/vectorize/index pipeline
func (c *APIClient) ProcessDocument(ctx context.Context, docID string) (*types.MessageResponse, error) {
	var ack types.MessageResponse
	path := fmt.Sprintf(endpointDocumentProcess, url.PathEscape(docID))
	if err := c.do(ctx, consts.MethodPost, path, nil, nil, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
