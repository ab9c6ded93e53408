package sftpclient

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/sftp"
)

// newInMemClient connects an sftp client to an in-memory request server.
func newInMemClient(t *testing.T) *sftp.Client {
	t.Helper()

	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go server.Serve()

	cli, err := sftp.NewClientPipe(clientConn, clientConn)
	if err != nil {
		t.Fatalf("failed to create sftp client: %v", err)
	}
	t.Cleanup(func() {
		cli.Close()
		server.Close()
	})
	return cli
}

func writeLocal(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func readRemote(t *testing.T, cli *sftp.Client, p string) string {
	t.Helper()
	f, err := cli.Open(p)
	if err != nil {
		t.Fatalf("failed to open remote %s: %v", p, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("failed to read remote %s: %v", p, err)
	}
	return string(b)
}

func TestSyncFilesUploadAndRemove(t *testing.T) {
	cli := newInMemClient(t)
	local := t.TempDir()
	writeLocal(t, local, "microcms-a.json", `{"id":"microcms-a"}`)
	writeLocal(t, local, "microcms-b.json", `{"id":"microcms-b"}`)

	ctx := context.Background()
	res, err := syncFiles(ctx, cli, "/inbound/posts", local, []string{"microcms-a.json", "microcms-b.json"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res.Uploaded) != 2 {
		t.Errorf("Expected 2 uploads, got %v", res.Uploaded)
	}
	if got := readRemote(t, cli, "/inbound/posts/microcms-a.json"); got != `{"id":"microcms-a"}` {
		t.Errorf("Unexpected remote content: %q", got)
	}

	res, err = syncFiles(ctx, cli, "/inbound/posts", local, nil, []string{"microcms-a.json", "microcms-missing.json"})
	if err != nil {
		t.Fatalf("Expected no error removing, got %v", err)
	}
	if len(res.Removed) != 2 {
		t.Errorf("Expected 2 removals, got %v", res.Removed)
	}
	if _, err := cli.Stat("/inbound/posts/microcms-a.json"); err == nil {
		t.Error("Expected microcms-a.json to be removed")
	}
	if _, err := cli.Stat("/inbound/posts/microcms-b.json"); err != nil {
		t.Errorf("Expected microcms-b.json to remain, got %v", err)
	}
}

func TestSyncFilesMissingLocalFile(t *testing.T) {
	cli := newInMemClient(t)

	_, err := syncFiles(context.Background(), cli, "/inbound", t.TempDir(), []string{"nope.json"}, nil)
	if err == nil || !strings.Contains(err.Error(), "open local file") {
		t.Errorf("Expected open local file error, got %v", err)
	}
}

func TestSyncFilesCanceled(t *testing.T) {
	cli := newInMemClient(t)
	local := t.TempDir()
	writeLocal(t, local, "a.json", "{}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := syncFiles(ctx, cli, "/inbound", local, []string{"a.json"}, nil)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(res.Uploaded) != 0 {
		t.Errorf("Expected no uploads, got %v", res.Uploaded)
	}
}

func TestSyncValidation(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		cfg           Config
		upload        []string
		errorContains string
	}{
		{
			name:          "Missing credentials",
			cfg:           Config{},
			upload:        []string{"a.json"},
			errorContains: "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS",
		},
		{
			name:          "Host key required",
			cfg:           Config{Host: "sftp.test", User: "u", Pass: "p"},
			upload:        []string{"a.json"},
			errorContains: "no host key configured",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Sync(ctx, tc.cfg, t.TempDir(), tc.upload, nil)
			if err == nil || !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("Expected error containing %q, got %v", tc.errorContains, err)
			}
		})
	}
}

func TestSyncNothingToDo(t *testing.T) {
	res, err := Sync(context.Background(), Config{}, t.TempDir(), nil, nil)
	if err != nil {
		t.Errorf("Expected no error with nothing to sync, got %v", err)
	}
	if len(res.Uploaded) != 0 || len(res.Removed) != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}

func TestRemoteDir(t *testing.T) {
	if got := remoteDir(Config{}); got != "/" {
		t.Errorf("Expected '/', got %q", got)
	}
	if got := remoteDir(Config{RemoteDir: "/inbound"}); got != "/inbound" {
		t.Errorf("Expected '/inbound', got %q", got)
	}
}
