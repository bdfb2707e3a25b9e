package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/api"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// client talks to a running flashdeck server.
type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newClient(baseURL, apiKey string) *client {
	return &client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// cardExport is the on-disk format for a card collection export.
type cardExport struct {
	ExportedAt string             `json:"exported_at"`
	Cards      []api.CardResponse `json:"cards"`
}

// documentExport is the on-disk format for a document collection export.
type documentExport struct {
	ExportedAt string                 `json:"exported_at"`
	Documents  []api.DocumentResponse `json:"documents"`
}

func (c *client) do(method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %s: %s", resp.Status, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *client) downloadCards(file string) error {
	var payload api.CardsPayload
	if err := c.do(http.MethodGet, "/download_cards", nil, &payload); err != nil {
		return err
	}

	export := cardExport{
		ExportedAt: domain.FormatTimestamp(time.Now().UTC()),
		Cards:      payload.Cards,
	}
	if err := writeJSONFile(file, export); err != nil {
		return err
	}

	fmt.Printf("Downloaded %d cards to %s\n", len(payload.Cards), file)
	return nil
}

func (c *client) uploadCards(file string) error {
	var export cardExport
	if err := readJSONFile(file, &export); err != nil {
		return err
	}
	if len(export.Cards) == 0 {
		return fmt.Errorf("no cards found in %s", file)
	}

	var summary service.UpsertSummary
	if err := c.do(http.MethodPost, "/upload_cards", api.CardsPayload{Cards: export.Cards}, &summary); err != nil {
		return err
	}

	fmt.Printf("Uploaded cards: %d inserted, %d updated\n", summary.Inserted, summary.Updated)
	return nil
}

func (c *client) downloadDocuments(file string) error {
	var payload api.DocumentsPayload
	if err := c.do(http.MethodGet, "/documents/download", nil, &payload); err != nil {
		return err
	}

	export := documentExport{
		ExportedAt: domain.FormatTimestamp(time.Now().UTC()),
		Documents:  payload.Documents,
	}
	if err := writeJSONFile(file, export); err != nil {
		return err
	}

	fmt.Printf("Downloaded %d documents to %s\n", len(payload.Documents), file)
	return nil
}

func (c *client) uploadDocuments(file string) error {
	var export documentExport
	if err := readJSONFile(file, &export); err != nil {
		return err
	}
	if len(export.Documents) == 0 {
		return fmt.Errorf("no documents found in %s", file)
	}

	var summary service.UpsertSummary
	if err := c.do(http.MethodPost, "/documents/upload", api.DocumentsPayload{Documents: export.Documents}, &summary); err != nil {
		return err
	}

	fmt.Printf("Uploaded documents: %d inserted, %d updated\n", summary.Inserted, summary.Updated)
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s contains invalid JSON: %w", path, err)
	}
	return nil
}
