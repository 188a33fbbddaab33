package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type stubScanService struct {
	state      *services.ScanState
	stateErr   error
	analysis   *services.AIResponse
	analyzeErr error

	lastID       string
	lastSlot     string
	lastPayload  string
	lastFileName string
	closeCalls   int
	releaseCalls int
}

func (s *stubScanService) Create(mode string) (*services.ScanState, error) {
	return s.state, s.stateErr
}

func (s *stubScanService) Acquire(id, slot, payload string) (*services.ScanState, error) {
	s.lastID = id
	s.lastSlot = slot
	s.lastPayload = payload
	return s.state, s.stateErr
}

func (s *stubScanService) AcquireFile(id, slot string, header *multipart.FileHeader) (*services.ScanState, error) {
	s.lastID = id
	s.lastSlot = slot
	s.lastFileName = header.Filename
	return s.state, s.stateErr
}

func (s *stubScanService) Release(id, slot string) {
	s.releaseCalls++
	s.lastID = id
	s.lastSlot = slot
}

func (s *stubScanService) Get(id string) (*services.ScanState, error) {
	s.lastID = id
	return s.state, s.stateErr
}

func (s *stubScanService) Close(id string) {
	s.closeCalls++
	s.lastID = id
}

func (s *stubScanService) Analyze(_ context.Context, id string) (*services.AIResponse, error) {
	s.lastID = id
	return s.analysis, s.analyzeErr
}

func newScanTestApp(handler *ScanHandler) *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/scans", handler.CreateScan)
	app.Get("/api/v1/scans/:id", handler.GetScan)
	app.Post("/api/v1/scans/:id/images", handler.UploadImage)
	app.Delete("/api/v1/scans/:id/images/:slot", handler.DeleteImage)
	app.Post("/api/v1/scans/:id/analyze", handler.Analyze)
	app.Delete("/api/v1/scans/:id", handler.DeleteScan)
	return app
}

func TestCreateScanReturnsState(t *testing.T) {
	service := &stubScanService{
		state: &services.ScanState{ID: "abc", Mode: services.ScanModeBody, Slots: []string{services.SlotFront, services.SlotBack}},
	}
	app := newScanTestApp(NewScanHandler(service))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", strings.NewReader(`{"mode":"body"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Scan services.ScanState `json:"scan"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Scan.ID != "abc" || len(body.Scan.Slots) != 2 {
		t.Fatalf("unexpected state: %+v", body.Scan)
	}
}

func TestCreateScanRejectsUnknownMode(t *testing.T) {
	app := newScanTestApp(NewScanHandler(&stubScanService{stateErr: services.ErrInvalidInput}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans", strings.NewReader(`{"mode":"xray"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUploadImageJSONBody(t *testing.T) {
	service := &stubScanService{
		state: &services.ScanState{ID: "abc", Mode: services.ScanModeBody, Filled: []string{services.SlotFront}},
	}
	app := newScanTestApp(NewScanHandler(service))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/abc/images", strings.NewReader(`{"slot":"front","image":"Zm9v"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != "abc" || service.lastSlot != services.SlotFront || service.lastPayload != "Zm9v" {
		t.Fatalf("unexpected forwarded call: %q %q %q", service.lastID, service.lastSlot, service.lastPayload)
	}
}

func TestUploadImageJSONDefaultsSlot(t *testing.T) {
	service := &stubScanService{
		state: &services.ScanState{ID: "abc", Mode: services.ScanModeFood},
	}
	app := newScanTestApp(NewScanHandler(service))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/abc/images", strings.NewReader(`{"image":"Zm9v"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if service.lastSlot != services.SlotImage {
		t.Fatalf("expected default slot, got %q", service.lastSlot)
	}
}

func TestUploadImageMultipart(t *testing.T) {
	service := &stubScanService{
		state: &services.ScanState{ID: "abc", Mode: services.ScanModeBody},
	}
	app := newScanTestApp(NewScanHandler(service))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "front.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("jpeg-bytes"))
	writer.WriteField("slot", services.SlotFront)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scans/abc/images", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastFileName != "front.jpg" || service.lastSlot != services.SlotFront {
		t.Fatalf("unexpected forwarded upload: %q %q", service.lastFileName, service.lastSlot)
	}
}

func TestDeleteImageReleasesSlot(t *testing.T) {
	service := &stubScanService{
		state: &services.ScanState{ID: "abc", Mode: services.ScanModeBody},
	}
	app := newScanTestApp(NewScanHandler(service))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/abc/images/front", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.releaseCalls != 1 {
		t.Fatalf("expected 1 release call, got %d", service.releaseCalls)
	}
}

func TestAnalyzeReturnsReport(t *testing.T) {
	service := &stubScanService{analysis: &services.AIResponse{Text: "Laudo."}}
	app := newScanTestApp(NewScanHandler(service))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/scans/abc/analyze", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Result services.AIResponse `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Result.Text != "Laudo." {
		t.Fatalf("unexpected result: %+v", body.Result)
	}
}

func TestAnalyzeBeforeReady(t *testing.T) {
	app := newScanTestApp(NewScanHandler(&stubScanService{analyzeErr: services.ErrInvalidInput}))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/scans/abc/analyze", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteScanClosesSession(t *testing.T) {
	service := &stubScanService{}
	app := newScanTestApp(NewScanHandler(service))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/scans/abc", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.closeCalls != 1 || service.lastID != "abc" {
		t.Fatalf("expected session close for abc, got %d calls for %q", service.closeCalls, service.lastID)
	}
}
