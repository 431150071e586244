// Package util provides small shared helpers for outbound HTTP transport.
package util

import (
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"

	"github.com/taskforge-dev/taskforge/internal/config"
)

// SetProxy routes httpClient's outbound requests through the proxy named by
// cfg.ProxyURL. http, https and socks5 URLs are supported; an empty or
// unusable value leaves the client untouched.
func SetProxy(cfg *config.Config, httpClient *http.Client) *http.Client {
	if cfg == nil || cfg.ProxyURL == "" {
		return httpClient
	}
	proxyURL, err := url.Parse(cfg.ProxyURL)
	if err != nil {
		log.Warnf("ignoring unparseable proxy-url %q: %v", cfg.ProxyURL, err)
		return httpClient
	}

	switch proxyURL.Scheme {
	case "socks5":
		var auth *proxy.Auth
		if user := proxyURL.User; user != nil {
			password, _ := user.Password()
			auth = &proxy.Auth{User: user.Username(), Password: password}
		}
		dialer, errDial := proxy.SOCKS5("tcp", proxyURL.Host, auth, proxy.Direct)
		if errDial != nil {
			log.Warnf("failed to set up socks5 proxy: %v", errDial)
			return httpClient
		}
		if contextDialer, ok := dialer.(proxy.ContextDialer); ok {
			httpClient.Transport = &http.Transport{DialContext: contextDialer.DialContext}
		}
	case "http", "https":
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	default:
		log.Warnf("unsupported proxy scheme %q", proxyURL.Scheme)
	}
	return httpClient
}
