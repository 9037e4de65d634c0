// Command prayercheck runs the API in-process against the memory store and
// prints what a client would see. Useful after touching routing or JSON.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"

	"github.com/jeefy/prayerjournal/internal/models"
	"github.com/jeefy/prayerjournal/internal/people"
	"github.com/jeefy/prayerjournal/internal/server"
	"github.com/jeefy/prayerjournal/internal/store"
)

func postPrayer(base, name, author, content string) (int, string, error) {
	b, _ := json.Marshal(map[string]string{"author_name": author, "content": content})
	res, err := http.Post(base+"/api/prayers/"+url.PathEscape(name), "application/json", bytes.NewReader(b))
	if err != nil {
		return 0, "", err
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(bytes.TrimSpace(body)), nil
}

func listPrayers(base, name string) ([]models.Prayer, error) {
	res, err := http.Get(base + "/api/prayers/" + url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out []models.Prayer
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func main() {
	reg, err := people.Default()
	if err != nil {
		log.Fatalf("load people: %v", err)
	}
	st := store.NewMemory()
	defer st.Close()
	srv := server.New(st, reg, server.Options{Logger: log.New(io.Discard, "", 0)})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	before, err := listPrayers(ts.URL, "Grant")
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	fmt.Printf("prayers for Grant before insert: %d\n", len(before))

	status, body, err := postPrayer(ts.URL, "Grant", "Avery", "Sow to the Spirit this week.")
	if err != nil {
		log.Fatalf("post: %v", err)
	}
	fmt.Printf("POST Grant -> %d %s\n", status, body)

	status, body, _ = postPrayer(ts.URL, "Grant", "  ", "no author")
	fmt.Printf("POST Grant with blank author -> %d %s\n", status, body)

	status, body, _ = postPrayer(ts.URL, "Nonexistent", "Avery", "who?")
	fmt.Printf("POST Nonexistent -> %d %s\n", status, body)

	after, err := listPrayers(ts.URL, "Grant")
	if err != nil {
		log.Fatalf("list: %v", err)
	}
	for _, p := range after {
		fmt.Printf("  #%d %s by %s at %s: %s\n", p.ID, p.PersonName, p.AuthorName, p.CreatedAt.Format(models.TimestampLayout), p.Content)
	}
	if len(after) != 1 {
		fmt.Fprintf(os.Stderr, "expected 1 prayer for Grant, got %d\n", len(after))
		os.Exit(1)
	}
}
