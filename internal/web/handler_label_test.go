package web

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymorita/solventory/internal/labelscan"
)

type stubScanner struct {
	result *labelscan.ScanResult
	err    error
}

func (s *stubScanner) Scan(ctx context.Context, r io.Reader, mimeType string) (*labelscan.ScanResult, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	return s.result, s.err
}

func labelScanRequest(t *testing.T, cookie *http.Cookie) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="label.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/labels/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestLabelScan(t *testing.T) {
	scanner := &stubScanner{result: &labelscan.ScanResult{
		Candidates: []labelscan.Candidate{
			{Name: "Methanol", CASNumber: "67-56-1"},
			{Name: "Methyl alcohol"},
		},
	}}
	f := newFixture(t, scanner)

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, labelScanRequest(t, f.login(t)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Candidates []labelCandidateView `json:"candidates"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Candidates, 2)
	assert.Equal(t, "Methanol", body.Candidates[0].Name)
	assert.Equal(t, "67-56-1", body.Candidates[0].CASNumber)
}

func TestLabelScanRequiresLogin(t *testing.T) {
	f := newFixture(t, &stubScanner{})
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, labelScanRequest(t, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLabelScanDisabled(t *testing.T) {
	f := newFixture(t, nil)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, labelScanRequest(t, f.login(t)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLabelScanBackendFailure(t *testing.T) {
	f := newFixture(t, &stubScanner{err: errors.New("model offline")})
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, labelScanRequest(t, f.login(t)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLabelScanMissingImageField(t *testing.T) {
	f := newFixture(t, &stubScanner{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no image here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/labels/scan", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(f.login(t))

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
