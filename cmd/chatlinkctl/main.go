// Package main is the chatlink admin CLI.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatlinkhq/chatlink/internal/config"
	"github.com/chatlinkhq/chatlink/internal/version"
)

var (
	flagConfigPath string
	flagAPIBaseURL string
	flagUsername   string
	flagPassword   string
	flagJWT        string
	flagTimeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:          "chatlinkctl",
	Short:        "Administer chatlink device registrations",
	Version:      version.GetInfo(),
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", os.Getenv("CONFIG_PATH"), "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&flagAPIBaseURL, "api-url", "", "API server base URL (e.g. http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Username for login")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Password for login (or set CHATLINK_PASSWORD)")
	rootCmd.PersistentFlags().StringVar(&flagJWT, "jwt", "", "JWT token (skips login)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Request timeout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient is an authenticated HTTP client for the admin API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(ctx context.Context) (*apiClient, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	baseURL := strings.TrimSpace(flagAPIBaseURL)
	if baseURL == "" {
		baseURL = defaultAPIBaseURL(cfg.Server.Addr)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("api url is required")
	}
	baseURL = normalizeBaseURL(baseURL)

	client := &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: flagTimeout},
	}

	token := strings.TrimSpace(flagJWT)
	if token == "" {
		username, password, err := resolveLoginCredentials(cfg)
		if err != nil {
			return nil, err
		}
		token, err = client.login(ctx, username, password)
		if err != nil {
			return nil, err
		}
	}
	client.token = token
	return client, nil
}

func resolveLoginCredentials(cfg config.Config) (string, string, error) {
	username := strings.TrimSpace(flagUsername)
	if username == "" {
		username = strings.TrimSpace(cfg.Auth.AdminUsername)
	}
	if username == "" {
		return "", "", fmt.Errorf("username is required for login")
	}
	password := strings.TrimSpace(flagPassword)
	if password == "" {
		password = strings.TrimSpace(os.Getenv("CHATLINK_PASSWORD"))
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required; pass --password or set CHATLINK_PASSWORD")
	}
	return username, password, nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

func (c *apiClient) login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return "", fmt.Errorf("login succeeded but token missing")
	}
	return resp.AccessToken, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if respBody == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(respBody)
}

func normalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

func defaultAPIBaseURL(addr string) string {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return normalizeBaseURL(trimmed)
	}
	if strings.HasPrefix(trimmed, ":") {
		return "http://127.0.0.1" + trimmed
	}
	return "http://" + trimmed
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
