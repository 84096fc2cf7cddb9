package handlers_test

import (
	"net/http"
	"testing"
)

func TestTransaksiSelfPurchaseRejected(t *testing.T) {
	app, _ := newTestApp(t)
	sari := login(t, app, "sari@givetzy.test", "Passw0rd!")

	resp, body := doJSON(t, app, "POST", "/api/transaksi", sari, map[string]any{
		"item_id": "brg-guitar",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self purchase: status %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "SELF_PURCHASE_NOT_ALLOWED" {
		t.Fatalf("self purchase code = %v", body["code"])
	}
}

func TestTransaksiPurchaseFlipsItem(t *testing.T) {
	app, db := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")

	resp, body := doJSON(t, app, "POST", "/api/transaksi", budi, map[string]any{
		"item_id":          "brg-guitar",
		"quantity":         1,
		"payment_method":   "cod",
		"shipping_address": "Bandung",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("purchase: status %d (%v)", resp.StatusCode, body)
	}
	data, _ := body["data"].(map[string]any)
	if data["status"] != "pending" {
		t.Fatalf("new transaction status = %v, want pending", data["status"])
	}

	var status string
	if err := db.Get(&status, `SELECT status FROM products WHERE id = 'brg-guitar'`); err != nil {
		t.Fatal(err)
	}
	if status != "sold" {
		t.Fatalf("product status = %q, want sold", status)
	}

	// A later buyer gets a clean rejection, not a second sale.
	doJSON(t, app, "POST", "/auth/register", "", map[string]any{
		"email": "candra@givetzy.test", "password": "Passw0rd!", "name": "Candra",
	})
	candra := login(t, app, "candra@givetzy.test", "Passw0rd!")

	resp, body = doJSON(t, app, "POST", "/api/transaksi", candra, map[string]any{
		"item_id": "brg-guitar",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second purchase: status %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "ITEM_UNAVAILABLE" {
		t.Fatalf("second purchase code = %v", body["code"])
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM transactions WHERE product_id = 'brg-guitar'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("%d transactions for one item, want 1", n)
	}
}

func TestTransaksiStatusUpdateOverHTTP(t *testing.T) {
	app, db := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")

	_, body := doJSON(t, app, "POST", "/api/transaksi", budi, map[string]any{
		"item_id": "brg-guitar",
	})
	data, _ := body["data"].(map[string]any)
	txID, _ := data["transaction_id"].(string)
	if txID == "" {
		t.Fatalf("no transaction id in %v", body)
	}

	// sari is party to the sale but candra is not
	doJSON(t, app, "POST", "/auth/register", "", map[string]any{
		"email": "candra@givetzy.test", "password": "Passw0rd!", "name": "Candra",
	})
	candra := login(t, app, "candra@givetzy.test", "Passw0rd!")
	resp, _ := doJSON(t, app, "PUT", "/api/transaksi/"+txID, candra, map[string]any{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("outsider update: status %d, want 403", resp.StatusCode)
	}

	resp, body = doJSON(t, app, "PUT", "/api/transaksi/"+txID, budi, map[string]any{
		"status": "cancelled",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel: status %d (%v)", resp.StatusCode, body)
	}

	var status string
	if err := db.Get(&status, `SELECT status FROM products WHERE id = 'brg-guitar'`); err != nil {
		t.Fatal(err)
	}
	if status != "available" {
		t.Fatalf("product after cancel = %q, want available", status)
	}

	// A settled transaction is frozen.
	resp, body = doJSON(t, app, "PUT", "/api/transaksi/"+txID, budi, map[string]any{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("cancelled->completed: status %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "INVALID_STATUS_TRANSITION" {
		t.Fatalf("transition code = %v", body["code"])
	}
}

func TestTransaksiListRoleFilter(t *testing.T) {
	app, _ := newTestApp(t)
	budi := login(t, app, "budi@givetzy.test", "Passw0rd!")

	doJSON(t, app, "POST", "/api/transaksi", budi, map[string]any{"item_id": "brg-novel"})

	resp, body := doJSON(t, app, "GET", "/api/transaksi?role=purchase", budi, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list purchases: status %d", resp.StatusCode)
	}
	rows, _ := body["data"].([]any)
	if len(rows) != 1 {
		t.Fatalf("purchases = %d, want 1", len(rows))
	}

	_, body = doJSON(t, app, "GET", "/api/transaksi?role=sale", budi, nil)
	rows, _ = body["data"].([]any)
	if len(rows) != 0 {
		t.Fatalf("sales = %d, want 0", len(rows))
	}

	resp, _ = doJSON(t, app, "GET", "/api/transaksi?role=vendor", budi, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad role: status %d, want 400", resp.StatusCode)
	}
}
