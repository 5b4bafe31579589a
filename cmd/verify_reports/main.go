package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var baseURL = getEnv("PROPDESK_URL", "http://127.0.0.1:8080") + "/api/reports"

var client = &http.Client{Timeout: 15 * time.Second}

func main() {
	fmt.Println("Starting Report Pipeline Verification...")

	// 1. Generate inventory levels filtered to linens
	var report struct {
		Title   string           `json:"title"`
		Rows    []map[string]any `json:"rows"`
		Columns []struct {
			Key string `json:"key"`
		} `json:"columns"`
	}
	err := postJSON("/generate", map[string]any{
		"reportType": "inventory-levels",
		"filters":    map[string]string{"category": "Linens"},
	}, &report)
	if err != nil {
		fail("Failed to generate inventory report", err)
	}
	for _, row := range report.Rows {
		if row["category"] != "Linens" {
			fail("Inventory report contains a non-linen row", fmt.Errorf("%v", row["itemName"]))
		}
	}
	fmt.Printf("Generated %q with %d rows and %d columns\n", report.Title, len(report.Rows), len(report.Columns))

	// 2. Unknown report types fall back instead of failing
	var fallback struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := postJSON("/generate", map[string]any{"reportType": "no-such-report"}, &fallback); err != nil {
		fail("Fallback generation failed", err)
	}
	if len(fallback.Rows) != 1 || fallback.Rows[0]["reportType"] != "no-such-report" {
		fail("Unexpected fallback rows", fmt.Errorf("%v", fallback.Rows))
	}
	fmt.Println("Fallback report OK")

	// 3. Export as CSV and parse it back
	body, disposition, err := postRaw("/export", map[string]any{
		"reportType": "compliance-audit",
		"format":     "csv",
		"filename":   "compliance-check",
	})
	if err != nil {
		fail("CSV export failed", err)
	}
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		fail("Exported CSV does not parse", err)
	}
	fmt.Printf("Exported CSV (%s) with %d records\n", disposition, len(records)-1)

	// 4. Save, run and delete a report configuration
	var created struct {
		ID string `json:"id"`
	}
	err = postJSON("/saved", map[string]any{
		"name":    "Verification - Villa Caldera tasks",
		"type":    "task-completion-log",
		"filters": map[string]string{"property": "Villa Caldera"},
	}, &created)
	if err != nil {
		fail("Failed to save report", err)
	}
	fmt.Printf("Saved report %s\n", created.ID)

	var run struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := postJSON("/saved/"+created.ID+"/run", nil, &run); err != nil {
		fail("Failed to run saved report", err)
	}
	for _, row := range run.Rows {
		if row["property"] != "Villa Caldera" {
			fail("Saved report ignored its property filter", fmt.Errorf("%v", row["property"]))
		}
	}
	fmt.Printf("Saved report returned %d rows\n", len(run.Rows))

	if err := deleteSaved(created.ID); err != nil {
		fail("Failed to delete saved report", err)
	}
	fmt.Println("SUCCESS: Report pipeline verified")
}

func postJSON(path string, payload any, out any) error {
	body, _, err := postRaw(path, payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func postRaw(path string, payload any) ([]byte, string, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, "", err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, reader)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "verify-reports")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, resp.Header.Get("Content-Disposition"), nil
}

func deleteSaved(id string) error {
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/saved/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func fail(msg string, err error) {
	fmt.Printf("%s: %v\n", msg, err)
	os.Exit(1)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
