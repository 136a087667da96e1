// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	targetsURL := strings.TrimSpace(os.Getenv("TARGETS_URL"))
	targets := strings.TrimSpace(os.Getenv("TARGETS"))
	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	slack := strings.TrimSpace(os.Getenv("SLACK_WEBHOOK"))
	tgToken := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	tgChat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	healthKey := strings.TrimSpace(os.Getenv("HEALTH_API_KEY"))

	if targetsURL == "" && targets == "" {
		fail("neither TARGETS_URL nor TARGETS is set (nothing to monitor).")
	}
	if targetsURL != "" {
		ok("TARGETS_URL=" + targetsURL)
	} else {
		ok(fmt.Sprintf("TARGETS has %d entries", len(strings.Split(targets, ","))))
	}

	if admin == "" {
		warn("ADMIN_API_KEYS is empty — restart and ignore-edit routes are open.")
	} else if strings.Contains(admin, " ") {
		warn("ADMIN_API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	} else {
		ok("ADMIN_API_KEYS present")
	}

	if slack == "" && (tgToken == "" || tgChat == "") {
		warn("no notifier configured — transitions will only reach the audit log.")
	}
	if tgToken != "" && tgChat == "" {
		fail("TELEGRAM_BOT_TOKEN set but TELEGRAM_CHAT_ID empty.")
	}

	if db == "" {
		warn("DATABASE_URL empty — ignore list will not survive restarts.")
	} else {
		ok("DATABASE_URL present")
	}

	if healthKey == "" {
		warn("HEALTH_API_KEY empty — health endpoints are probed without a key.")
	}

	ok("preflight passed")
}
