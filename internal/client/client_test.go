package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/faasten/fstn/internal/credentials"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	creds, err := credentials.Open(filepath.Join(t.TempDir(), "credentials"))
	if err != nil {
		t.Fatalf("open credentials failed: %v", err)
	}
	if err := creds.Save(srv.URL, "tester", "secret-token"); err != nil {
		t.Fatalf("save token failed: %v", err)
	}
	return New(srv.URL, "tester", creds)
}

func TestInvoke(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotRequestID string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, `{"success": true}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	payload, err := EncodeOp("ls", PathArgs{Path: SplitPath("home:docs")})
	if err != nil {
		t.Fatalf("EncodeOp failed: %v", err)
	}

	resp, err := c.Invoke(context.Background(), "~:fsutil", payload)
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	resp.Body.Close()

	if gotPath != "/faasten/invoke/~:fsutil" {
		t.Errorf("request path = %q, want /faasten/invoke/~:fsutil", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("authorization = %q, want bearer token", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
	if gotRequestID == "" {
		t.Error("request should carry an X-Request-Id")
	}
	if string(gotBody) != `{"op":"ls","args":{"path":["home","docs"]}}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestInvoke_NoTokenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should never reach the server without a token")
	}))
	defer srv.Close()

	creds, err := credentials.Open(filepath.Join(t.TempDir(), "credentials"))
	if err != nil {
		t.Fatalf("open credentials failed: %v", err)
	}
	c := New(srv.URL, "nobody", creds)

	if _, err := c.Invoke(context.Background(), "~:fsutil", nil); err == nil {
		t.Fatal("Invoke without a stored token should fail")
	}
}

func TestInvokeMultipart(t *testing.T) {
	blobPath := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(blobPath, []byte("blob-bytes"), 0o644); err != nil {
		t.Fatalf("write blob fixture failed: %v", err)
	}

	type part struct {
		filename string
		content  string
	}
	var blobParts []part
	var payloadField string
	var partOrder []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("MultipartReader failed: %v", err)
			return
		}
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			content, _ := io.ReadAll(p)
			partOrder = append(partOrder, p.FormName())
			switch p.FormName() {
			case "payload":
				payloadField = string(content)
			case "blob":
				blobParts = append(blobParts, part{filename: p.FileName(), content: string(content)})
			}
		}
	}))
	defer srv.Close()

	c := testClient(t, srv)
	payload, _ := EncodeOp("mkblob", BlobArgs{Label: "T,T", Base: SplitPath("home:blobs")})

	resp, err := c.InvokeMultipart(context.Background(), "~:fsutil", payload, []Blob{{Path: blobPath}})
	if err != nil {
		t.Fatalf("InvokeMultipart failed: %v", err)
	}
	resp.Body.Close()

	if payloadField != string(payload) {
		t.Errorf("payload field = %q, want %q", payloadField, payload)
	}
	if len(partOrder) == 0 || partOrder[0] != "payload" {
		t.Errorf("part order = %v, payload must come before the blobs", partOrder)
	}
	if len(blobParts) != 1 {
		t.Fatalf("got %d blob parts, want 1", len(blobParts))
	}
	if blobParts[0].filename != "image.bin" {
		t.Errorf("blob filename = %q, want image.bin", blobParts[0].filename)
	}
	if blobParts[0].content != "blob-bytes" {
		t.Errorf("blob content = %q", blobParts[0].content)
	}
}

func TestDelegate(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/faasten/delegate" {
			t.Errorf("request path = %q, want /faasten/delegate", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, "delegated-token")
	}))
	defer srv.Close()

	c := testClient(t, srv)
	resp, err := c.Delegate(context.Background(), "team", true, "T,T")
	if err != nil {
		t.Fatalf("Delegate failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != "delegated-token" {
		t.Errorf("response = %q, want delegated-token", body)
	}
	if gotBody["component"] != "team" || gotBody["bootstrap"] != true || gotBody["clearance"] != "T,T" {
		t.Errorf("delegate body = %v", gotBody)
	}
}

func TestPing(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c := testClient(t, srv)
	elapsed, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if gotPath != "/faasten/ping" {
		t.Errorf("request path = %q, want /faasten/ping", gotPath)
	}
	if elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", elapsed)
	}

	if _, err := c.PingScheduler(context.Background()); err != nil {
		t.Fatalf("PingScheduler failed: %v", err)
	}
	if gotPath != "/faasten/ping/scheduler" {
		t.Errorf("request path = %q, want /faasten/ping/scheduler", gotPath)
	}
}

func TestFsutil(t *testing.T) {
	if got := Fsutil(""); got != "~:fsutil" {
		t.Errorf("Fsutil(\"\") = %q", got)
	}
	if got := Fsutil("alice"); got != "home:<alice,alice>:fsutil" {
		t.Errorf("Fsutil(alice) = %q", got)
	}
}

func TestWriteArgsEncodesBase64(t *testing.T) {
	payload, err := EncodeOp("write", WriteArgs{Path: SplitPath("home:f"), Data: []byte("hi")})
	if err != nil {
		t.Fatalf("EncodeOp failed: %v", err)
	}
	want := `{"op":"write","args":{"path":["home","f"],"data":"aGk="}}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}
