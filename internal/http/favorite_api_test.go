package handlers_test

import (
	"net/http"
	"testing"
)

func TestFavoriteSaveUnsave(t *testing.T) {
	app, db := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")

	resp, _ := doJSON(t, app, "POST", "/api/barang/brg-guitar/favorite", budi, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save: status %d", resp.StatusCode)
	}
	// Saving twice must not double-count interest.
	doJSON(t, app, "POST", "/api/barang/brg-guitar/favorite", budi, nil)

	var interest int
	if err := db.Get(&interest, `SELECT interest_count FROM products WHERE id = 'brg-guitar'`); err != nil {
		t.Fatal(err)
	}
	if interest != 1 {
		t.Fatalf("interest_count = %d, want 1", interest)
	}

	_, body := doJSON(t, app, "GET", "/api/favorites", budi, nil)
	items, _ := body["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("favorites = %d, want 1", len(items))
	}

	resp, _ = doJSON(t, app, "DELETE", "/api/barang/brg-guitar/favorite", budi, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unsave: status %d", resp.StatusCode)
	}
	if err := db.Get(&interest, `SELECT interest_count FROM products WHERE id = 'brg-guitar'`); err != nil {
		t.Fatal(err)
	}
	if interest != 0 {
		t.Fatalf("interest_count after unsave = %d, want 0", interest)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/api/categories", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories: status %d", resp.StatusCode)
	}
	cats, _ := body["data"].([]any)
	seen := map[any]bool{}
	for _, c := range cats {
		seen[c] = true
	}
	for _, want := range []string{"Books", "Kitchen", "Music"} {
		if !seen[want] {
			t.Fatalf("categories %v missing %q", cats, want)
		}
	}
}
