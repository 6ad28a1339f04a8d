// Package helpers provides utility functions for the export pipeline.
package helpers

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// NormalizeURL removes trailing slashes from URLs to prevent double-slash issues
func NormalizeURL(urlStr string) string {
	return strings.TrimRight(urlStr, "/")
}

// MD5Hash generates an MD5 hash of the given text string
func MD5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return fmt.Sprintf("%x", hash)
}

// DebugHTTPTransport wraps an http.RoundTripper to log request/response details
type DebugHTTPTransport struct {
	Transport http.RoundTripper
	Log       *logrus.Entry
}

// RoundTrip implements http.RoundTripper interface with debugging
func (d *DebugHTTPTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := d.Log.WithFields(logrus.Fields{"method": req.Method, "url": req.URL.String()})
	log.Debug("http request")

	resp, err := d.Transport.RoundTrip(req)
	if err != nil {
		log.WithError(err).Debug("http request failed")
		return resp, err
	}

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode < 400 {
		log.Debug("http response")
		return resp, nil
	}

	// Read the error body and restore it for the caller
	bodyBytes, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		log.WithError(readErr).Debug("failed to read error response body")
	} else {
		log.WithField("body", string(bodyBytes)).Debug("http error response")
	}
	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	return resp, nil
}

// EnableHTTPDebugLogging wraps the HTTP client with debug logging
func EnableHTTPDebugLogging(client *http.Client, log *logrus.Entry) *http.Client {
	if client == nil {
		client = &http.Client{}
	}

	if client.Transport == nil {
		client.Transport = http.DefaultTransport
	}

	client.Transport = &DebugHTTPTransport{
		Transport: client.Transport,
		Log:       log,
	}

	return client
}
