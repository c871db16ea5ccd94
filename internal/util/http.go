package util

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Content types written by the kiosk.
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// JSONResponse encodes a JSON Response object.
func JSONResponse(w http.ResponseWriter, d interface{}, statusCode int) {
	dj, err := json.Marshal(d)
	if err != nil {
		http.Error(w, "Error creating JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, "%s", dj)
}

// HTMLResponse writes an already rendered page.
func HTMLResponse(w http.ResponseWriter, page []byte, statusCode int) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(statusCode)
	_, _ = w.Write(page)
}

// TextError writes a plain text error body, e.g. for missing routes and assets.
func TextError(w http.ResponseWriter, message string, statusCode int) {
	http.Error(w, message, statusCode)
}

// ClientIP implements a best effort algorithm to return the real client IP, it parses
// X-Real-IP and X-Forwarded-For in order to work properly with reverse-proxies such us: nginx or haproxy.
// Use X-Forwarded-For before X-Real-Ip as nginx uses X-Real-Ip with the proxy's IP.
func ClientIP(r *http.Request) string {
	clientIP := r.Header.Get("X-Forwarded-For")
	clientIP = strings.TrimSpace(strings.Split(clientIP, ",")[0])
	if clientIP == "" {
		clientIP = strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	}
	if clientIP != "" {
		return clientIP
	}
	if ip, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr)); err == nil {
		return ip
	}
	return ""
}
