package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/classifier"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/session"
)

// stubClassifier returns a canned reply without calling any external service.
type stubClassifier struct {
	reply *classifier.Reply
	err   error
}

func (s *stubClassifier) Classify(context.Context, string) (*classifier.Reply, error) {
	return s.reply, s.err
}

func newTestRouter(cls classifier.Classifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(session.NewStore(), cls)
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func uploadCSV(t *testing.T, router *gin.Engine, kind, sessionID, csv string) UploadResponse {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", kind+".csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.WriteField("kind", kind); err != nil {
		t.Fatalf("write kind field: %v", err)
	}
	if sessionID != "" {
		if err := w.WriteField("session_id", sessionID); err != nil {
			t.Fatalf("write session field: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp
}

func ask(t *testing.T, router *gin.Engine, sessionID, question string) (*httptest.ResponseRecorder, AskResponse) {
	t.Helper()

	body, _ := json.Marshal(AskRequest{SessionID: sessionID, Question: question})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp AskResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

const forecastCSV = `Style Collection,Style Number,Description,Color,SU26 M1,SU26 M2,SU26 M3,FAL26 M1,FAL26 M2,FAL26 M3
Accolade,A-100,Crew tee,Navy,120,90,80,70,60,50
Borealis,B-200,Hoodie,Black,40,45,50,55,60,65
`

func TestAsk_EndToEndForecastLookup(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{reply: &classifier.Reply{
		Call: &classifier.FunctionCall{
			Name:      "forecast_lookup",
			Arguments: json.RawMessage(`{"collection":"Accolade","month":"April","year":2026}`),
		},
	}})

	up := uploadCSV(t, router, "forecast", "", forecastCSV)
	rec, resp := ask(t, router, up.SessionID, "What is the forecast for Accolade in April 2026?")
	if rec.Code != http.StatusOK {
		t.Fatalf("ask status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Kind != "scalar" || !strings.Contains(resp.Reply, "120 units") {
		t.Fatalf("want 120 units scalar answer, got %+v", resp)
	}
}

func TestAsk_TableAnswerOffersDownload(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{reply: &classifier.Reply{
		Call: &classifier.FunctionCall{
			Name:      "top_styles",
			Arguments: json.RawMessage(`{"collection":"Accolade","month":"April","year":2026}`),
		},
	}})

	up := uploadCSV(t, router, "forecast", "", forecastCSV)
	rec, resp := ask(t, router, up.SessionID, "Top styles for Accolade in April 2026")
	if rec.Code != http.StatusOK || resp.Table == nil {
		t.Fatalf("want table answer, got %d %+v", rec.Code, resp)
	}
	if resp.DownloadURL == "" {
		t.Fatalf("table answers should carry a download URL")
	}

	dlReq := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	dlRec := httptest.NewRecorder()
	router.ServeHTTP(dlRec, dlReq)
	if dlRec.Code != http.StatusOK {
		t.Fatalf("download status = %d", dlRec.Code)
	}
	if ct := dlRec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("download content type = %q", ct)
	}
}

func TestAsk_UnknownFunctionIsUnderstoodAsDispatchError(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{reply: &classifier.Reply{
		Call: &classifier.FunctionCall{Name: "drop_tables", Arguments: json.RawMessage(`{}`)},
	}})

	up := uploadCSV(t, router, "forecast", "", forecastCSV)
	rec, resp := ask(t, router, up.SessionID, "do something weird")
	if rec.Code != http.StatusOK {
		t.Fatalf("dispatch errors must not fail the request: %d", rec.Code)
	}
	if resp.Kind != "unrecognized" {
		t.Fatalf("want unrecognized answer, got %+v", resp)
	}
}

func TestAsk_ClassifierFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{err: errors.New("upstream timeout")})

	rec, _ := ask(t, router, "", "anything")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("classifier failure should map to 502, got %d", rec.Code)
	}
}

func TestAsk_PlainTextModelAnswer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{reply: &classifier.Reply{Text: "I can answer forecast questions."}})

	rec, resp := ask(t, router, "", "hello")
	if rec.Code != http.StatusOK || resp.Kind != "message" {
		t.Fatalf("plain model text should pass through, got %d %+v", rec.Code, resp)
	}
}

func TestUpload_RejectsBadDatasetKind(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("file", "forecast.csv")
	part.Write([]byte(forecastCSV))
	w.WriteField("kind", "inventory")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown kind should be rejected, got %d", rec.Code)
	}
}

func TestUpload_IngestionFailureReported(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("file", "forecast.csv")
	// Duplicate headers after normalization: ingestion must halt.
	part.Write([]byte("Style Collection,style_collection\nA,B\n"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate columns should fail ingestion, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStatusAndPreview(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{})
	up := uploadCSV(t, router, "forecast", "", forecastCSV)

	req := httptest.NewRequest(http.MethodGet, "/api/status?session_id="+up.SessionID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Initialized || status.ForecastRows != 2 {
		t.Fatalf("unexpected status: %+v", status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/preview?session_id="+up.SessionID+"&limit=1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var preview PreviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if len(preview.Rows) != 1 || preview.Rows[0][0] != "Accolade" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
}

func TestAsk_SecondUploadReplacesDataset(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&stubClassifier{reply: &classifier.Reply{
		Call: &classifier.FunctionCall{
			Name:      "forecast_lookup",
			Arguments: json.RawMessage(`{"collection":"Accolade","month":"April","year":2026}`),
		},
	}})

	up := uploadCSV(t, router, "forecast", "", forecastCSV)
	replacement := `Style Collection,Style Number,Description,Color,SU26 M1
Accolade,A-100,Crew tee,Navy,7
`
	uploadCSV(t, router, "forecast", up.SessionID, replacement)

	_, resp := ask(t, router, up.SessionID, "forecast for Accolade in April 2026")
	if !strings.Contains(resp.Reply, "7 units") {
		t.Fatalf("second upload should replace the dataset: %+v", resp)
	}
}
