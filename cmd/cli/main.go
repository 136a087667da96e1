package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Small helper to put a domain on the ignore list via the admin API.
func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	key := os.Getenv("ADMIN_API_KEY")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a domain to ignore (e.g., example.com): ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" || !strings.Contains(raw, ".") {
		fmt.Println("Invalid domain.")
		return
	}

	body, _ := json.Marshal(map[string]string{"domain": raw})
	req, err := http.NewRequest(http.MethodPost, api+"/api/ignores", bytes.NewReader(body))
	if err != nil {
		fmt.Println("Error building request:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		fmt.Println("Ignored! The monitor skips it from the next cycle.")
	} else {
		fmt.Println("API returned status:", resp.Status)
	}
}
