package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SFTPConfig describes an SFTP drop for exported transcripts.
type SFTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	KeyFile   string
	RemoteDir string

	// KnownHostsFile verifies the server key. Without it the upload is
	// refused unless InsecureIgnoreHostKey is set.
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
}

// Enabled reports whether a target host is configured.
func (c SFTPConfig) Enabled() bool {
	return c.Host != ""
}

func (c SFTPConfig) clientConfig() (*ssh.ClientConfig, error) {
	if c.Host == "" || c.User == "" {
		return nil, errors.New("sftp: host and user are required")
	}

	var auth []ssh.AuthMethod
	if c.KeyFile != "" {
		pem, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("sftp: read key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("sftp: parse key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if c.Password != "" {
		auth = append(auth, ssh.Password(c.Password))
	}
	if len(auth) == 0 {
		return nil, errors.New("sftp: a password or key file is required")
	}

	var hostKey ssh.HostKeyCallback
	switch {
	case c.KnownHostsFile != "":
		cb, err := knownhosts.New(c.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("sftp: load known hosts: %w", err)
		}
		hostKey = cb
	case c.InsecureIgnoreHostKey:
		hostKey = ssh.InsecureIgnoreHostKey()
	default:
		return nil, errors.New("sftp: set a known hosts file or allow unverified host keys")
	}

	return &ssh.ClientConfig{
		User:            c.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         20 * time.Second,
	}, nil
}

// Upload copies localPath to RemoteDir/remoteName on the configured server.
func Upload(ctx context.Context, cfg SFTPConfig, localPath, remoteName string) error {
	sshCfg, err := cfg.clientConfig()
	if err != nil {
		return err
	}
	port := cfg.Port
	if port <= 0 {
		port = 22
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("sftp: dial %s: %w", addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		conn.Close()
		return fmt.Errorf("sftp: handshake %s: %w", addr, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer client.Close()

	return upload(ctx, client, cfg.RemoteDir, localPath, remoteName)
}

func upload(ctx context.Context, client *sftp.Client, remoteDir, localPath, remoteName string) error {
	if remoteDir == "" {
		remoteDir = "/"
	}
	if err := client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", remoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	remotePath := path.Join(remoteDir, remoteName)
	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create %s: %w", remotePath, err)
	}

	if _, err := io.Copy(dst, ctxReader{ctx, src}); err != nil {
		dst.Close()
		return fmt.Errorf("sftp: upload %s: %w", remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp: close %s: %w", remotePath, err)
	}
	return nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
