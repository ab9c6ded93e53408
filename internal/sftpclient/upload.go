package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

type Config struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	InsecureIgnoreHostKey bool
	HostKey               ssh.PublicKey // used when InsecureIgnoreHostKey is false
}

// Result lists what a Sync call changed on the remote side.
type Result struct {
	Uploaded []string
	Removed  []string
}

// Sync uploads the named files from localDir into cfg.RemoteDir and removes
// the names in remove from it. Missing remote files are not an error.
func Sync(ctx context.Context, cfg Config, localDir string, upload, remove []string) (Result, error) {
	if len(upload) == 0 && len(remove) == 0 {
		return Result{}, nil
	}

	sshClient, err := dial(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	defer sshClient.Close()

	cli, err := sftp.NewClient(sshClient)
	if err != nil {
		return Result{}, fmt.Errorf("sftp: new client: %w", err)
	}
	defer cli.Close()

	return syncFiles(ctx, cli, remoteDir(cfg), localDir, upload, remove)
}

func remoteDir(cfg Config) string {
	if cfg.RemoteDir == "" {
		return "/"
	}
	return cfg.RemoteDir
}

func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if cfg.HostKey == nil {
		return nil, errors.New("sftp: host key verification enabled but no host key configured")
	}
	return ssh.FixedHostKey(cfg.HostKey), nil
}

func dial(ctx context.Context, cfg Config) (*ssh.Client, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, fmt.Errorf("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}

	cb, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         20 * time.Second,
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}

func syncFiles(ctx context.Context, cli *sftp.Client, dir, localDir string, upload, remove []string) (Result, error) {
	var res Result

	if err := cli.MkdirAll(dir); err != nil {
		return res, fmt.Errorf("sftp: mkdir %s: %w", dir, err)
	}

	for _, name := range upload {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := uploadFile(cli, filepath.Join(localDir, name), path.Join(dir, name)); err != nil {
			return res, err
		}
		res.Uploaded = append(res.Uploaded, name)
	}

	for _, name := range remove {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := cli.Remove(path.Join(dir, name))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return res, fmt.Errorf("sftp: remove %s: %w", name, err)
		}
		res.Removed = append(res.Removed, name)
	}

	return res, nil
}

func uploadFile(cli *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	dst, err := cli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file %s: %w", remotePath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: upload copy %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp: close remote file %s: %w", remotePath, err)
	}
	return nil
}
