package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"desk-cli/internal/model"
)

// HTTPClient implements Client against a JSON API.
//
// Endpoints:
//
//	POST   /api/items            create one item
//	PATCH  /api/items            batch partial update
//	DELETE /api/items/{id}       delete one item
//	GET    /api/desktop          full collection
//	POST   /api/trash/empty      purge trashed items
//	POST   /api/files            multipart upload, returns the created item
type HTTPClient struct {
	BaseURL string
	Token   string

	// HTTP defaults to http.DefaultClient. No timeout is imposed here: the
	// caller's transport policy governs hung calls.
	HTTP *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:   token,
	}
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &NetworkError{Op: op, Err: err}
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &NetworkError{Op: op, Err: err}
		}
	}
	return nil
}

func (c *HTTPClient) CreateItem(ctx context.Context, item model.Item) error {
	return c.do(ctx, "create", http.MethodPost, "/api/items", item, nil)
}

func (c *HTTPClient) UpdateItems(ctx context.Context, patches []ItemPatch) error {
	if len(patches) == 0 {
		return nil
	}
	return c.do(ctx, "update", http.MethodPatch, "/api/items", patches, nil)
}

func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/api/items/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) FetchDesktop(ctx context.Context) ([]model.Item, error) {
	var out struct {
		Items []model.Item `json:"items"`
	}
	if err := c.do(ctx, "fetch", http.MethodGet, "/api/desktop", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *HTTPClient) EmptyTrash(ctx context.Context) error {
	return c.do(ctx, "empty-trash", http.MethodPost, "/api/trash/empty", nil, nil)
}

func (c *HTTPClient) UploadFile(ctx context.Context, req UploadRequest, onProgress ProgressFunc) (model.Item, error) {
	meta := map[string]any{
		"parentId": req.ParentID,
		"position": req.Position,
		"mimeType": req.MimeType,
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return model.Item{}, &NetworkError{Op: "upload", Err: err}
	}

	// The multipart body is streamed through a pipe rather than buffered, so
	// progress reflects bytes actually handed to the transport, not a local
	// copy that completes before the request even starts.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("meta", string(rawMeta)); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", req.Name)
			if err != nil {
				return err
			}
			src := req.Data
			if onProgress != nil && req.Size > 0 {
				src = &progressReader{r: req.Data, total: req.Size, fn: onProgress}
			}
			if _, err := io.Copy(part, src); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/files", pr)
	if err != nil {
		pr.Close()
		return model.Item{}, &NetworkError{Op: "upload", Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return model.Item{}, &NetworkError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Item{}, &NetworkError{Op: "upload", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var out struct {
		Item model.Item `json:"item"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Item{}, &NetworkError{Op: "upload", Err: err}
	}
	return out.Item, nil
}

// progressReader reports whole-percent progress as the multipart body is
// assembled from the source reader.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.fn(pct)
		}
	}
	return n, err
}
