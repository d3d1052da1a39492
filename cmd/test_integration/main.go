package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func baseURL() string {
	if u := os.Getenv("MEDWISE_URL"); u != "" {
		return u
	}
	return "http://localhost:5050"
}

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Health...")
	if !sendRequest("GET", "/healthz", nil, http.StatusOK) {
		fmt.Println("FAILED: Health")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health")

	fmt.Println("2. Drug comparison...")
	if !sendRequest("POST", "/drug", map[string]string{"drugName": "Tylenol"}, http.StatusOK) {
		fmt.Println("FAILED: Drug comparison")
		os.Exit(1)
	}
	fmt.Println("PASSED: Drug comparison")

	fmt.Println("3. Unknown drug...")
	if !sendRequest("POST", "/drug", map[string]string{"drugName": "Unknown123"}, http.StatusNotFound) {
		fmt.Println("FAILED: Unknown drug")
		os.Exit(1)
	}
	fmt.Println("PASSED: Unknown drug")

	fmt.Println("4. Empty question...")
	if !sendRequest("POST", "/ask", map[string]string{"question": ""}, http.StatusBadRequest) {
		fmt.Println("FAILED: Empty question")
		os.Exit(1)
	}
	fmt.Println("PASSED: Empty question")

	fmt.Println("5. Ask...")
	if !sendRequest("POST", "/ask", map[string]string{"question": "What is the cheapest generic alternative to Advil?"}, http.StatusOK) {
		fmt.Println("FAILED: Ask")
		os.Exit(1)
	}
	fmt.Println("PASSED: Ask")
}

func sendRequest(method, endpoint string, payload interface{}, wantStatus int) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL()+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		fmt.Printf("Request failed with status %d (want %d): %s\n", resp.StatusCode, wantStatus, string(respBody))
		return false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return true
}
