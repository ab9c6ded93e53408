package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// microCMS
	ServiceDomain string
	APIKey        string
	BaseURL       string // empty means https://<ServiceDomain>.microcms.io/api/v1
	Timeout       time.Duration
	MaxAttempts   int

	// Export
	ExportDir string
	SiteURL   string
	SiteTitle string

	// Preview
	PreviewAddr string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

func Load() Config {
	return Config{
		// microCMS
		ServiceDomain: strings.TrimSpace(os.Getenv("MICROCMS_SERVICE_DOMAIN")),
		APIKey:        os.Getenv("MICROCMS_API_KEY"),
		BaseURL:       os.Getenv("MICROCMS_BASE_URL"),
		Timeout:       time.Duration(getenvInt("MICROCMS_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxAttempts:   getenvInt("MICROCMS_MAX_ATTEMPTS", 1),

		// Export
		ExportDir: getenv("EXPORT_DIR", "content/microcms"),
		SiteURL:   getenv("SITE_URL", "http://localhost:4321"),
		SiteTitle: getenv("SITE_TITLE", "Blog"),

		// Preview
		PreviewAddr: getenv("PREVIEW_ADDR", ":8787"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
