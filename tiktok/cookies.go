package tiktok

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// LoadCookies installs cookies from a JSON file into the browser so the
// session starts authenticated. A missing file is not an error: the bot
// simply runs unauthenticated until cookies are captured.
func LoadCookies(browser *rod.Browser, path string) error {
	params, err := readCookieFile(path)
	if err != nil {
		return err
	}
	if params == nil {
		slog.Info("no cookie file found, continuing without session cookies", "path", path)
		return nil
	}

	if err := browser.SetCookies(params); err != nil {
		return fmt.Errorf("set cookies: %w", err)
	}
	slog.Info("session cookies loaded", "path", path, "count", len(params))
	return nil
}

// SaveCookies writes the browser's current cookies to a JSON file for
// the next run.
func SaveCookies(browser *rod.Browser, path string) error {
	cookies, err := browser.GetCookies()
	if err != nil {
		return fmt.Errorf("get cookies: %w", err)
	}

	data, err := json.MarshalIndent(toParams(cookies), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cookies: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}
	return nil
}

func readCookieFile(path string) ([]*proto.NetworkCookieParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	var params []*proto.NetworkCookieParam
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("parse cookie file: %w", err)
	}
	return params, nil
}

func toParams(cookies []*proto.NetworkCookie) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}
	return params
}
