package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// CDNStorage talks to the in-house CDN service over HTTP.
type CDNStorage struct {
	origin     string
	folder     string
	httpClient *http.Client
}

func NewCDNStorage(origin string, folder string, httpClient *http.Client) *CDNStorage {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &CDNStorage{
		origin:     strings.TrimRight(origin, "/"),
		folder:     folder,
		httpClient: httpClient,
	}
}

func (s *CDNStorage) Upload(ctx context.Context, file io.Reader, mimeType string, originalName string) (*Object, error) {
	key := NewKey(originalName)
	fail := func(err error) (*Object, error) {
		return nil, &Error{Op: OpUpload, Key: key, Err: err}
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	fileWriter, err := writer.CreateFormFile("file", key)
	if err != nil {
		return fail(err)
	}

	if _, err := io.Copy(fileWriter, file); err != nil {
		return fail(err)
	}

	if err := writer.WriteField("path", s.folder); err != nil {
		return fail(err)
	}

	if err := writer.Close(); err != nil {
		return fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.origin+"/upload", &requestBody)
	if err != nil {
		return fail(err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Add("type", strings.ToUpper(strings.SplitN(mimeType, "/", 2)[0]))

	body, err := s.do(req)
	if err != nil {
		return fail(err)
	}

	returnedURL := strings.Trim(strings.TrimSpace(string(body)), "\"")
	if returnedURL == "" {
		return fail(fmt.Errorf("empty url in CDN response"))
	}

	return &Object{Key: key, URL: returnedURL}, nil
}

func (s *CDNStorage) Delete(ctx context.Context, key string) error {
	endpoint := s.origin + "/files/" + path.Join(url.PathEscape(s.folder), url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return &Error{Op: OpDelete, Key: key, Err: err}
	}

	if _, err := s.do(req); err != nil {
		return &Error{Op: OpDelete, Key: key, Err: err}
	}

	return nil
}

func (s *CDNStorage) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var bodyJSON map[string]interface{}
		if err := json.Unmarshal(body, &bodyJSON); err == nil && bodyJSON["details"] != nil {
			return nil, fmt.Errorf("CDN responded %d: %v", resp.StatusCode, bodyJSON["details"])
		}
		return nil, fmt.Errorf("CDN responded %d", resp.StatusCode)
	}

	return body, nil
}
